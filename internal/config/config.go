// Package config loads runtime settings for the server and the check harness.
//
// Sources, later ones winning:
//  1. Default()
//  2. a .env file in the working directory, if present (joho/godotenv)
//  3. an optional YAML file (gopkg.in/yaml.v3)
//  4. environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port               int           `yaml:"port"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	// SecureCookies marks the session cookie Secure. Leave it off only when
	// serving plain HTTP on localhost.
	SecureCookies      bool          `yaml:"secure_cookies"`
}

// DatabaseConfig selects the backend. Path is used by sqlite, URL by postgres.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

// LogConfig picks the slog handler; see internal/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			ShutdownTimeout:    30 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "data/homework.db",
		},
		Auth: AuthConfig{
			TokenTTL:   24 * time.Hour,
			BcryptCost: 12,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
		},
	}
}

// Load builds a Config from all sources. path may be empty to skip the YAML
// file. The result has been validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. Keys absent from the file
// keep their current values; unknown keys are an error so typos surface.
func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q", v)
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("SECURE_COOKIES"); ok {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid SECURE_COOKIES %q", v)
		}
		c.Server.SecureCookies = secure
	}
	if v, ok := os.LookupEnv("DB_DRIVER"); ok {
		c.Database.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("DB_PATH"); ok {
		c.Database.Path = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		c.Database.URL = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		c.Auth.JWTSecret = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("config: sqlite driver needs database.path (DB_PATH)")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("config: postgres driver needs database.url (DATABASE_URL)")
		}
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 16 {
		return errors.New("config: JWT secret must be at least 16 characters")
	}

	switch strings.ToLower(c.Log.Format) {
	case "pretty", "json", "text":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
