// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	Driver string // sqlite or postgres (default: sqlite)
	// DSN is used verbatim when set. For sqlite it falls back to Path.
	DSN  string
	Path string // SQLite database file (default: ~/.promptlab/promptlab.db)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port               string        // Server port (default: 8080)
	ReadTimeout        time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout       time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout        time.Duration // HTTP idle timeout (default: 60s)
	CORSAllowedOrigins []string      // default: *
}

// AuthConfig holds bearer token configuration.
type AuthConfig struct {
	// TokenKey is the hex-encoded PASETO v4 symmetric key (64 hex chars).
	// When empty, the key stored at KeyPath is used, generated on first run.
	TokenKey string
	KeyPath  string
	Issuer   string
}

// RateLimitConfig bounds mutating requests per client.
type RateLimitConfig struct {
	RPS   float64 // default: 5
	Burst int     // default: 20
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("promptlab", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Database flags
	dbDriver := fs.String("db-driver", "", "Database driver (sqlite, postgres)")
	dbDSN := fs.String("db-dsn", "", "Database connection string")
	dbPath := fs.String("db-path", "", "SQLite database file")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	// Auth flags
	tokenKey := fs.String("auth-token-key", "", "Hex-encoded PASETO v4 key")
	keyPath := fs.String("auth-key-path", "", "File holding the PASETO key when no key is given")
	issuer := fs.String("auth-issuer", "", "Expected token issuer (default: promptlab)")

	// Rate limit flags
	rps := fs.String("rate-limit-rps", "", "Mutating requests per second per client (default: 5)")
	burst := fs.String("rate-limit-burst", "", "Rate limit burst size (default: 20)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getConfigValue(*dbDriver, "DB_DRIVER", DriverSQLite)),
			DSN:    getConfigValue(*dbDSN, "DB_DSN", ""),
			Path:   getConfigValue(*dbPath, "DB_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			TokenKey: getConfigValue(*tokenKey, "AUTH_TOKEN_KEY", ""),
			KeyPath:  getConfigValue(*keyPath, "AUTH_KEY_PATH", ""),
			Issuer:   getConfigValue(*issuer, "AUTH_ISSUER", "promptlab"),
		},
	}

	var err error

	// Parse server timeouts.
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	rpsStr := getConfigValue(*rps, "RATE_LIMIT_RPS", "5")
	if cfg.RateLimit.RPS, err = strconv.ParseFloat(rpsStr, 64); err != nil {
		return nil, fmt.Errorf("invalid rate limit rps %q: %w", rpsStr, err)
	}
	burstStr := getConfigValue(*burst, "RATE_LIMIT_BURST", "20")
	if cfg.RateLimit.Burst, err = strconv.Atoi(burstStr); err != nil {
		return nil, fmt.Errorf("invalid rate limit burst %q: %w", burstStr, err)
	}

	// Expand and validate database path.
	if err := cfg.expandDatabasePath(); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	// Key file defaults to living next to the database.
	if err := cfg.expandKeyPath(); err != nil {
		return nil, fmt.Errorf("invalid auth key path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.DSN == "" && c.Database.Path == "" {
			return errors.New("sqlite requires DB_PATH or DB_DSN")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("postgres requires DB_DSN")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be sqlite or postgres)", c.Database.Driver)
	}

	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive, got %v", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1, got %d", c.RateLimit.Burst)
	}

	// Key format is checked by auth.NewTokenVerifier.
	if c.Auth.TokenKey == "" && c.Auth.KeyPath == "" {
		return errors.New("AUTH_TOKEN_KEY or AUTH_KEY_PATH is required")
	}

	return nil
}

// DriverName returns the database/sql driver registered for the configured backend.
func (d DatabaseConfig) DriverName() string {
	if d.Driver == DriverPostgres {
		return "pgx"
	}
	return "sqlite"
}

// ConnString returns the DSN handed to the driver.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	return "file:" + d.Path
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDatabasePath fills in the default SQLite file.
// An explicit DSN or a postgres backend leaves Path untouched.
func (c *Config) expandDatabasePath() error {
	if c.Database.Driver != DriverSQLite || (c.Database.DSN != "" && c.Database.Path == "") {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".promptlab", "promptlab.db")

	expanded, err := expandPath(c.Database.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Database.Path = expanded
	return nil
}

// expandKeyPath defaults the key file to {database dir}/auth.key.
func (c *Config) expandKeyPath() error {
	if c.Auth.TokenKey != "" && c.Auth.KeyPath == "" {
		return nil
	}

	var defaultPath string
	if c.Database.Path != "" {
		defaultPath = filepath.Join(filepath.Dir(c.Database.Path), "auth.key")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		defaultPath = filepath.Join(homeDir, ".promptlab", "auth.key")
	}

	expanded, err := expandPath(c.Auth.KeyPath, defaultPath)
	if err != nil {
		return err
	}
	c.Auth.KeyPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", envKey, s, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
