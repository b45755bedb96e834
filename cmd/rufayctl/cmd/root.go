package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rufay/internal/config"
	"rufay/internal/database"
	"rufay/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "rufayctl",
	Short: "rufayctl - operator tooling for the RuFay ledger",
	Long: `rufayctl runs maintenance tasks against the RuFay database.

It reads the same environment as the server (DATABASE_DRIVER, DATABASE_DSN,
LOG_LEVEL, ...) and a .env file in the working directory when present.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// openStore loads configuration, applies it to the logger and opens the migrated database
func openStore(ctx context.Context) (*database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
