// Package service — authentication business logic.
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Accounts are local: a username plus a bcrypt-hashed password. A successful
// Register or Login returns a signed JWT the client sends back on every
// authenticated request.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/auth"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

const (
	MinPasswordLength = 8
	MaxUsernameLength = 50
)

// AuthService handles registration, login and token checks.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → generate/validate JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// RegisterInput is what a new account needs. Role may be empty (student).
type RegisterInput struct {
	Username string
	Password string
	Role     string
	Name     string
	Email    string
}

// Register creates a local account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	role := in.Role
	switch role {
	case "":
		role = model.RoleStudent
	case model.RoleStudent, model.RoleInstructor, model.RoleAdmin:
	default:
		return nil, apperror.ValidationFailed("role", fmt.Sprintf("unknown role %q", role))
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = username
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
		Email:        strings.TrimSpace(in.Email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("user", username)
		}
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
		slog.String("role", user.Role),
	)

	return s.issue(user)
}

// Login verifies a username/password pair. Unknown users and wrong passwords
// get the same apperror.ErrUnauthorized so callers cannot probe usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Warn("failed login", slog.String("username", user.Username))
		return nil, apperror.Unauthorized("invalid username or password")
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))
	return s.issue(user)
}

// GetUserByID returns the user for the given ID. Used by /api/me and by the
// answer handlers to turn a token subject into an actor.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, apperror.Unauthorized("user ID must be positive")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", id, err)
	}
	return user, nil
}

// ValidateToken validates a JWT string and returns the user ID it encodes.
func (s *AuthService) ValidateToken(tokenStr string) (int64, error) {
	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return 0, fmt.Errorf("service/auth: %w", err)
	}
	return userID, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
