// Package auth issues and checks the credentials used by the HTTP API:
// HS256 JWTs carrying the user ID, bcrypt password hashes, and the chi
// middleware that turns a token into a user ID on the request context.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"42","iss":"homework-qa","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "homework-qa"

	// DefaultTokenTTL is used when NewTokenService gets a zero TTL.
	DefaultTokenTTL = 24 * time.Hour
)

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. The secret must be at least 16
// characters; ttl <= 0 means DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL is how long issued tokens stay valid. The handlers reuse it as the
// cookie Max-Age.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Generate signs a token for userID that expires after the service TTL.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration signs a token with a custom lifetime. A negative d
// yields an already expired token, which the tests rely on.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		Issuer:    issuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a JWT string and returns the user ID in its
// "sub" claim.
//
// Passing jwt.WithValidMethods pins the algorithm to HS256, so a token
// claiming "none" (or an asymmetric algorithm) is rejected outright.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	var c jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, errors.New("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return 0, errors.New("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: token subject %q is not a user id", c.Subject)
	}
	return userID, nil
}
