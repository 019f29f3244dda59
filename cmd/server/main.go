// Package main is the entry point for the homework Q&A API server.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal. Its job is to:
//  1. Read configuration (flags, .env, YAML file, env vars)
//  2. Create dependencies (logger, database connection)
//  3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, ...).
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/homework-qa/internal/config"
	"github.com/sakif/homework-qa/internal/logging"
	"github.com/sakif/homework-qa/internal/repository"
	"github.com/sakif/homework-qa/internal/repository/postgres"
	"github.com/sakif/homework-qa/internal/repository/sqlite"
	"github.com/sakif/homework-qa/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	logger, err := logging.New(os.Stdout, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// Without a configured secret every restart logs everybody out, which is
	// fine for local development and nothing else.
	if cfg.Auth.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			logger.Error("generating JWT secret", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg.Auth.JWTSecret = secret
		logger.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	// === 3. OPEN THE DATABASE ===
	ctx := context.Background()
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. START ===
	srv, err := server.New(cfg, store, logger)
	if err != nil {
		store.Close()
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, error) {
	if cfg.Driver == config.DriverPostgres {
		db, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	// SQLite creates the file but not its directory.
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := sqlite.New(cfg.Path)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
