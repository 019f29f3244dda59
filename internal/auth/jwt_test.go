package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// newTestTokenService uses a fixed secret so tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService(t *testing.T) {
	if _, err := NewTokenService("short", 0); err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}

	ts, err := NewTokenService("this-is-16-chars", 0)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error for valid secret: %v", err)
	}
	if ts.TTL() != DefaultTokenTTL {
		t.Errorf("TTL() = %v, want default %v", ts.TTL(), DefaultTokenTTL)
	}
}

func TestGenerate_LooksLikeJWT(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got := strings.Count(token, "."); got != 2 {
		t.Errorf("Generate() token has %d dots, want 2", got)
	}
}

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Validate() userID = %d, want 42", got)
	}
}

func TestValidate_Rejects(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!", time.Hour)

	expired, _ := ts.GenerateWithDuration(1, -time.Second)
	good, _ := ts.Generate(1)
	foreign, _ := other.Generate(1)

	// Right secret, wrong issuer.
	wrongIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret-at-least-16-chars!!"))

	// Right secret and issuer, subject is not numeric.
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-abc",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret-at-least-16-chars!!"))

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"tampered", good[:len(good)-3] + "xxx"},
		{"wrong secret", foreign},
		{"wrong issuer", wrongIssuer},
		{"non-numeric subject", badSubject},
		{"empty", ""},
		{"garbage", "not.a.jwt.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ts.Validate(tt.token); err == nil {
				t.Errorf("Validate(%s) should fail", tt.name)
			}
		})
	}
}
