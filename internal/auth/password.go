package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor for production hashes.
const DefaultCost = 12

// ErrInvalidPassword is returned by Verify when the password does not match.
var ErrInvalidPassword = errors.New("auth: invalid password")

// PasswordService hashes and checks passwords with bcrypt. The cost is a
// field so tests can drop it to bcrypt.MinCost.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService using cost, clamped to
// bcrypt's allowed range. Zero means DefaultCost.
func NewPasswordService(cost int) *PasswordService {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of plaintext, salt and cost included:
//
//	$2a$12$<22-char salt><31-char hash>
//
// bcrypt silently truncates input past 72 bytes, so longer passwords are
// rejected instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", errors.New("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil if plaintext matches hash, ErrInvalidPassword if it
// does not, and a wrapped error if hash is malformed.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
