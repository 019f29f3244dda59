// Package postgres implements the repository interfaces on PostgreSQL using a
// pgx connection pool. The schema is embedded and applied with golang-migrate.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/homework-qa/internal/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgreSQL SQLSTATE codes we translate into domain errors.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
// pgxmock.PgxPoolIface satisfies it too, which is how the tests run.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

var _ repository.Store = (*DB)(nil)

// DB is a PostgreSQL-backed repository.Store.
type DB struct {
	pool DBTX
}

// New runs pending migrations against databaseURL, then opens a pool and
// verifies it with a ping.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// NewWithPool wraps an already open pool. Migrations are the caller's job.
func NewWithPool(pool DBTX) *DB {
	return &DB{pool: pool}
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) Answers() repository.AnswerRepository     { return &AnswerDB{pool: db.pool} }
func (db *DB) Questions() repository.QuestionRepository { return &QuestionDB{pool: db.pool} }
func (db *DB) Users() repository.UserRepository         { return &UserDB{pool: db.pool} }

// Migrate applies the embedded migrations to the database at databaseURL.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("postgres: loading migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(databaseURL))
	if err != nil {
		return fmt.Errorf("postgres: creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: applying migrations: %w", err)
	}
	return nil
}

// migrationURL rewrites a postgres:// URL to the pgx5:// scheme the
// golang-migrate pgx driver registers under.
func migrationURL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, scheme)
		}
	}
	return databaseURL
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
