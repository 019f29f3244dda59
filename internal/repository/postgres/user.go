package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
	"github.com/sakif/homework-qa/internal/repository"
)

var _ repository.UserRepository = (*UserDB)(nil)

type UserDB struct {
	pool DBTX
}

const userColumns = `id, username, password_hash, role, name, email, created_at`

// Create inserts a new user, defaulting Role to student. A taken username
// is reported as apperror.ErrConflict.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	user.CreatedAt = time.Now().UTC()

	err := u.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role, name, email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.Name,
		user.Email,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("postgres: inserting user %q: %w", user.Username, err)
	}
	return nil
}

func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := u.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("postgres: getting user %d: %w", id, err)
	}
	return user, nil
}

func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := u.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("postgres: getting user %q: %w", username, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
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
