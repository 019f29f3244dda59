// Package sqlite implements the repository interfaces on top of SQLite.
//
// The driver is modernc.org/sqlite, a pure Go translation of SQLite, so the
// binary builds without a C toolchain. The schema lives in migrations/ and is
// applied with golang-migrate when the database is opened.
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB      — a connection pool (we cap it at one connection)
//   - sql.Row     — a single result row
//   - sql.Rows    — multiple result rows (must be closed!)
package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/homework-qa/internal/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite's built-in LOWER only folds ASCII. fold lowers with Go's Unicode
// tables so case-insensitive search agrees with postgres ILIKE.
// Functions are registered on the driver, so every connection sees it.
func init() {
	sqlitedriver.MustRegisterDeterministicScalarFunction("fold", 1, fold)
}

func fold(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// compile-time check that *DB implements repository.Store
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB and hands out the per-table repositories.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and brings the schema up to date.
//
// dbPath examples:
//   - "data/homework.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database, gone when closed (tests)
//
// ONE CONNECTION:
// Every pooled connection to ":memory:" would be a separate empty database,
// and PRAGMA foreign_keys is per connection. Pinning the pool to a single
// connection keeps both consistent. SQLite serializes writers anyway.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in flight. In-memory databases
	// silently stay in "memory" journal mode.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. answers.question_id depends on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Answers returns the answer repository backed by this database.
func (db *DB) Answers() repository.AnswerRepository { return &AnswerDB{conn: db.conn} }

// Questions returns the question repository backed by this database.
func (db *DB) Questions() repository.QuestionRepository { return &QuestionDB{conn: db.conn} }

// Users returns the user repository backed by this database.
func (db *DB) Users() repository.UserRepository { return &UserDB{conn: db.conn} }

// migrate applies every pending migration from the embedded migrations/ dir.
//
// m is never closed: the sqlite driver's Close would close db.conn too.
func (db *DB) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	drv, err := migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// isConstraint reports whether err is the given extended SQLite constraint
// code, e.g. sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY.
func isConstraint(err error, code int) bool {
	var se *sqlitedriver.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == code
}

const (
	codeForeignKey = sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	codeUnique     = sqlite3.SQLITE_CONSTRAINT_UNIQUE
)
