// Command answercheck runs the five answer CRUD checks against the configured
// database and prints a pass/fail report.
//
// USAGE:
//
//	answercheck [-config config.yaml] [-seed] [-no-color]
//
// EXIT STATUS:
// 0 when every check passed, 1 when any failed, 2 on a setup error
// (bad config, unusable logger).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sakif/homework-qa/internal/config"
	"github.com/sakif/homework-qa/internal/harness"
	"github.com/sakif/homework-qa/internal/logging"
	"github.com/sakif/homework-qa/internal/repository"
	"github.com/sakif/homework-qa/internal/repository/postgres"
	"github.com/sakif/homework-qa/internal/repository/sqlite"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML config file")
	seed := flag.Bool("seed", false, "insert a sample question first if the database has none")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "answercheck: %v\n", err)
		return 2
	}

	// Logs go to stderr so stdout carries only the report.
	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "answercheck: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	open := opener(cfg.Database)

	if *seed {
		if err := seedQuestion(ctx, open, logger); err != nil {
			logger.Error("seeding failed", slog.String("error", err.Error()))
			return 1
		}
	}

	runner := harness.NewRunner(open, os.Stdout, logger, nil, harness.Options{NoColor: *noColor})
	if sum := runner.Run(ctx); !sum.OK() {
		return 1
	}
	return 0
}

// opener returns a harness.Opener for the configured backend. Every call makes
// a new connection; the runner closes it after each check.
func opener(cfg config.DatabaseConfig) harness.Opener {
	switch cfg.Driver {
	case config.DriverPostgres:
		return func(ctx context.Context) (repository.Store, error) {
			db, err := postgres.New(ctx, cfg.URL)
			if err != nil {
				return nil, err
			}
			return db, nil
		}
	default:
		return func(context.Context) (repository.Store, error) {
			if dir := filepath.Dir(cfg.Path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("creating data directory: %w", err)
				}
			}
			db, err := sqlite.New(cfg.Path)
			if err != nil {
				return nil, err
			}
			return db, nil
		}
	}
}

func seedQuestion(ctx context.Context, open harness.Opener, logger *slog.Logger) error {
	store, err := open(ctx)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer store.Close()

	inserted, err := harness.SeedQuestion(ctx, store)
	if err != nil {
		return err
	}
	if inserted {
		logger.Info("sample question inserted")
	}
	return nil
}
