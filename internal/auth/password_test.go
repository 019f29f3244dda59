package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Cost 4 keeps each hash in the low milliseconds.
func newTestPasswordService() *PasswordService {
	return NewPasswordService(bcrypt.MinCost)
}

func TestNewPasswordService_Cost(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultCost},
		{1, bcrypt.MinCost},
		{10, 10},
		{99, bcrypt.MaxCost},
	}
	for _, tt := range tests {
		if got := NewPasswordService(tt.in).cost; got != tt.want {
			t.Errorf("NewPasswordService(%d).cost = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHash(t *testing.T) {
	ps := newTestPasswordService()

	hash1, err := ps.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash1, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash1)
	}

	// Random salt: the same password must not hash the same way twice.
	hash2, _ := ps.Hash("same-password")
	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password")
	}
}

func TestHash_Length(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("Hash() should accept a 72-byte password, got error: %v", err)
	}
}

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()
	hash, err := ps.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "correct-horse-battery-staple"); err != nil {
		t.Errorf("Verify() correct password: %v", err)
	}
	if err := ps.Verify(hash, "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify() wrong password error = %v, want ErrInvalidPassword", err)
	}
	if err := ps.Verify(hash, ""); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify() empty password error = %v, want ErrInvalidPassword", err)
	}

	err = ps.Verify("not-a-valid-bcrypt-hash", "password")
	if err == nil || errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify() garbage hash error = %v, want a non-mismatch error", err)
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	cases := []struct {
		name     string
		password string
	}{
		{"simple alphanumeric", "hello123"},
		{"special characters", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"whitespace", "  leading and trailing  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := ps.Hash(tc.password)
			if err != nil {
				t.Fatalf("Hash(%q) error = %v", tc.password, err)
			}
			if err := ps.Verify(hash, tc.password); err != nil {
				t.Errorf("Verify() failed for %q: %v", tc.password, err)
			}
		})
	}
}
