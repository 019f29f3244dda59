package harness

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/homework-qa/internal/repository"
	"github.com/sakif/homework-qa/internal/repository/sqlite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sqliteOpener returns an Opener over a temp-file database, so every check
// reconnects to the same data the way the CLI does.
func sqliteOpener(t *testing.T) (Opener, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harness.db")
	return func(context.Context) (repository.Store, error) {
		db, err := sqlite.New(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	}, path
}

func seed(t *testing.T, open Opener) {
	t.Helper()
	store, err := open(context.Background())
	require.NoError(t, err)
	defer store.Close()

	inserted, err := SeedQuestion(context.Background(), store)
	require.NoError(t, err)
	require.True(t, inserted)
}

func TestRun_AllChecksPass(t *testing.T) {
	open, _ := sqliteOpener(t)
	seed(t, open)

	var out bytes.Buffer
	sum := NewRunner(open, &out, discardLogger(), nil, Options{NoColor: true}).Run(context.Background())

	assert.True(t, sum.OK(), out.String())
	assert.Equal(t, 5, sum.Passed)
	assert.Equal(t, 0, sum.Failed)
	assert.Equal(t, 5, sum.Total())
	assert.NotEmpty(t, sum.RunID)

	text := out.String()
	for _, c := range DefaultChecks() {
		assert.Contains(t, text, "Running: "+c.Name)
	}
	assert.Equal(t, 5, strings.Count(text, "✓ PASSED"))
	assert.Contains(t, text, "Tests Passed: 5")
	assert.Contains(t, text, "Tests Failed: 0")
	assert.Contains(t, text, "Total Tests:  5")
	assert.Contains(t, text, "Search found")
}

func TestRun_OrderIsFixed(t *testing.T) {
	open, _ := sqliteOpener(t)
	seed(t, open)

	var out bytes.Buffer
	sum := NewRunner(open, &out, discardLogger(), nil, Options{NoColor: true}).Run(context.Background())

	require.Len(t, sum.Results, 5)
	want := []string{
		"Test 1: Create Answer",
		"Test 2: Read Answer",
		"Test 3: Update Answer",
		"Test 4: Delete Answer",
		"Test 5: Search Answers",
	}
	for i, r := range sum.Results {
		assert.Equal(t, want[i], r.Name)
	}
}

func TestRun_NoQuestions(t *testing.T) {
	open, _ := sqliteOpener(t)

	var out bytes.Buffer
	sum := NewRunner(open, &out, discardLogger(), nil, Options{NoColor: true}).Run(context.Background())

	assert.Equal(t, 0, sum.Passed)
	assert.Equal(t, 5, sum.Failed)
	for _, r := range sum.Results {
		assert.Equal(t, ErrNoQuestions.Error(), r.Reason)
	}
	assert.Contains(t, out.String(), "✗ FAILED: no questions found in database")

	// The checks must not have created a question behind our back.
	store, err := open(context.Background())
	require.NoError(t, err)
	defer store.Close()
	qs, err := store.Questions().List(context.Background(), repository.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestRun_ConnectionFailure(t *testing.T) {
	open := func(context.Context) (repository.Store, error) {
		return nil, errors.New("database is locked")
	}

	var out bytes.Buffer
	sum := NewRunner(open, &out, discardLogger(), nil, Options{NoColor: true}).Run(context.Background())

	assert.Equal(t, 5, sum.Failed)
	assert.Equal(t, 5, strings.Count(out.String(), "✗ FAILED: connecting to database: database is locked"))
	assert.Contains(t, out.String(), "Total Tests:  5")
}

// countingStore records Close calls; its repositories are never touched by
// the synthetic checks below.
type countingStore struct {
	closed *int
}

func (s countingStore) Answers() repository.AnswerRepository     { return nil }
func (s countingStore) Questions() repository.QuestionRepository { return nil }
func (s countingStore) Users() repository.UserRepository         { return nil }
func (s countingStore) Close() error {
	*s.closed++
	return nil
}

func TestRun_PanicsAndCloses(t *testing.T) {
	opened, closed := 0, 0
	open := func(context.Context) (repository.Store, error) {
		opened++
		return countingStore{closed: &closed}, nil
	}

	checks := []Check{
		{Name: "passes", Run: func(context.Context, *Env) error { return nil }},
		{Name: "panics", Run: func(context.Context, *Env) error { panic("kaboom") }},
		{Name: "fails", Run: func(context.Context, *Env) error { return errors.New("nope") }},
		{Name: "passes again", Run: func(context.Context, *Env) error { return nil }},
	}

	var out bytes.Buffer
	sum := NewRunner(open, &out, discardLogger(), checks, Options{NoColor: true}).Run(context.Background())

	assert.Equal(t, 2, sum.Passed)
	assert.Equal(t, 2, sum.Failed)
	assert.Equal(t, 4, opened)
	assert.Equal(t, 4, closed, "store must be closed after every check")

	text := out.String()
	assert.Contains(t, text, "✗ FAILED with exception: kaboom")
	assert.Contains(t, text, "✗ FAILED: nope")
	assert.Equal(t, "panic: kaboom", sum.Results[1].Reason)
}

func TestSeedQuestion_OnlyWhenEmpty(t *testing.T) {
	open, _ := sqliteOpener(t)
	seed(t, open)

	store, err := open(context.Background())
	require.NoError(t, err)
	defer store.Close()

	inserted, err := SeedQuestion(context.Background(), store)
	require.NoError(t, err)
	assert.False(t, inserted)
}
