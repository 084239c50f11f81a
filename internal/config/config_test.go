package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"ENV", "LOG_LEVEL",
	"DB_DRIVER", "DB_DSN", "DB_PATH",
	"SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
	"CORS_ALLOWED_ORIGINS",
	"AUTH_TOKEN_KEY", "AUTH_KEY_PATH", "AUTH_ISSUER",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
}

// clearConfigEnv blanks every config variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func loadIsolated(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	args = append([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}, args...)
	return Load(args)
}

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		Database:  DatabaseConfig{Driver: DriverSQLite, Path: "/data/promptlab.db"},
		Auth:      AuthConfig{KeyPath: "/data/auth.key", Issuer: "promptlab"},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 20},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadIsolated(t)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, filepath.Join(home, ".promptlab", "promptlab.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(home, ".promptlab", "auth.key"), cfg.Auth.KeyPath)
	assert.Equal(t, "promptlab", cfg.Auth.Issuer)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.InDelta(t, 5.0, cfg.RateLimit.RPS, 0.0001)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := loadIsolated(t, "-log-level", "debug")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoad_EnvFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HOME", t.TempDir())

	envFile := filepath.Join(t.TempDir(), ".env")
	content := `ENV=staging
RATE_LIMIT_BURST=3
CORS_ALLOWED_ORIGINS=https://a.example, https://b.example
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := Load([]string{"-env-file", envFile})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_Postgres(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://app@localhost/promptlab")
	t.Setenv("AUTH_TOKEN_KEY", "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")

	cfg, err := loadIsolated(t)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "pgx", cfg.Database.DriverName())
	assert.Equal(t, "postgres://app@localhost/promptlab", cfg.Database.ConnString())
	assert.Empty(t, cfg.Database.Path)
	assert.Empty(t, cfg.Auth.KeyPath)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad duration", []string{"-read-timeout", "soon"}},
		{"bad rps", []string{"-rate-limit-rps", "fast"}},
		{"bad burst", []string{"-rate-limit-burst", "1.5"}},
		{"bad driver", []string{"-db-driver", "mysql"}},
		{"postgres without dsn", []string{"-db-driver", "postgres"}},
		{"unknown flag", []string{"-verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv("HOME", t.TempDir())

			_, err := loadIsolated(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Database(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Driver: DriverSQLite}
	assert.Error(t, cfg.Validate(), "sqlite needs a path or dsn")

	cfg.Database = DatabaseConfig{Driver: DriverSQLite, DSN: "file::memory:"}
	assert.NoError(t, cfg.Validate())

	cfg.Database = DatabaseConfig{Driver: DriverPostgres}
	assert.Error(t, cfg.Validate())

	cfg.Database = DatabaseConfig{Driver: "oracle", DSN: "x"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.RPS = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RateLimit.Burst = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_AuthKeySource(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.KeyPath = ""
	assert.Error(t, cfg.Validate())

	cfg.Auth.TokenKey = "deadbeef"
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_ConnString(t *testing.T) {
	d := DatabaseConfig{Driver: DriverSQLite, Path: "/data/p.db"}
	assert.Equal(t, "file:/data/p.db", d.ConnString())
	assert.Equal(t, "sqlite", d.DriverName())

	d.DSN = "file:/other.db?mode=ro"
	assert.Equal(t, "file:/other.db?mode=ro", d.ConnString())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/db/p.db", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "db", "p.db"), got)

	got, err = expandPath("/abs/../abs/p.db", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/p.db", got)

	got, err = expandPath("rel/p.db", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `# Test env file
LOG_LEVEL=debug
DB_PATH=/test/path.db
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// Blank and restore on cleanup.
	for _, key := range []string{"LOG_LEVEL", "DB_PATH", "QUOTED_VALUE", "SINGLE_QUOTED"} {
		t.Setenv(key, "")
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "/test/path.db", os.Getenv("DB_PATH"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Setenv("VALID_KEY", "")

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_VAR", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`TEST_VAR=new-value`), 0o600))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}
