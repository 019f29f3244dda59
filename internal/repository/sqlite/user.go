package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB provides user-related database operations.
type UserDB struct {
	conn *sql.DB
}

// Create inserts a new user. A taken username is reported as
// apperror.ErrConflict. An empty Role defaults to student.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	user.CreatedAt = time.Now().UTC()

	res, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, name, email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.Name,
		user.Email,
		user.CreatedAt,
	)
	if err != nil {
		if isConstraint(err, codeUnique) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID retrieves a user by id. Returns apperror.ErrNotFound if absent.
func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := u.getOne(ctx, `WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by login name.
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := u.getOne(ctx, `WHERE username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}
	return user, nil
}

func (u *UserDB) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User
	err := u.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, name, email, created_at FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
