package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nihilcoder/promptlab/internal/api"
	"github.com/nihilcoder/promptlab/internal/config"
	"github.com/nihilcoder/promptlab/internal/logger"
	"github.com/nihilcoder/promptlab/internal/store/sqldb"
)

var (
	dbDriver string
	dbDSN    string
	dbPath   string
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "promptctl",
	Short: "Operator tool for the prompt library",
	Long: `promptctl manages a prompt library database directly, without the API server.

It reads the same environment variables and .env file as the server;
flags given here take precedence.`,
	Version:       api.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "database driver: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "database connection string")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "SQLite database file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(migrateCmd, seedCmd, tagsCmd, tokenCmd)
}

// loadConfig builds the server configuration with the CLI flags layered on top.
func loadConfig() (*config.Config, error) {
	args := []string{"-env-file", envFile}
	for flag, value := range map[string]string{
		"-db-driver": dbDriver,
		"-db-dsn":    dbDSN,
		"-db-path":   dbPath,
		"-log-level": logLevel,
	} {
		if value != "" {
			args = append(args, flag, value)
		}
	}
	return config.Load(args)
}

// openStore loads configuration and opens the database it points at.
func openStore() (*sqldb.Store, *config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	st, err := sqldb.Open(cfg.Database.DriverName(), cfg.Database.ConnString(), log.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return st, cfg, log, nil
}
