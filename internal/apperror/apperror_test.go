// GO TESTING BASICS:
// 1. Test files MUST end in _test.go — Go's tooling auto-discovers them
// 2. Test functions MUST start with "Test" and take *testing.T as the only param
// 3. Same package as the code being tested (so we can access unexported stuff)
// 4. Run with: go test ./internal/apperror/ -v  (-v = verbose, shows each test name)
package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("answer", 42),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("content", "answer content is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("user", "bob"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("only the author may edit this answer"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("invalid username or password"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("reading answer: %w", NotFound("answer", 7)),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("answer", 42),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Forbidden does NOT match ErrUnauthorized",
			err:       Forbidden("nope"),
			target:    ErrUnauthorized,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and numeric id",
			err:         NotFound("answer", int64(42)),
			wantMessage: "answer not found with id 42",
		},
		{
			name:        "NotFound message includes string id",
			err:         NotFound("user", "alice"),
			wantMessage: "user not found with id alice",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("author", "answer author is required"),
			wantMessage: "answer author is required",
		},
		{
			name:        "Conflict message includes resource and id",
			err:         Conflict("user", "bob"),
			wantMessage: "user conflict with id bob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("answer", 1)
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("questionId", "question 9 does not exist")

	if err.Field != "questionId" {
		t.Errorf("Field = %q, want %q", err.Field, "questionId")
	}
}
