package cmd

import (
	"github.com/spf13/cobra"

	"rufay/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	log := logger.WithComponent("migrate")
	log.Info().
		Str("driver", db.Driver()).
		Msg("Schema is up to date")
	return nil
}
