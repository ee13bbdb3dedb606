package cli

import (
	"fmt"

	"github.com/SscSPs/dues_ledger/pkg/database"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or roll back the database schema",
	Long:      `Runs the embedded migrations for the configured DB_DRIVER. "down" drops every table.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		direction := database.Direction(args[0])
		if err := database.RunMigrations(logger, cfg.DBDriver, cfg.DSN(), direction); err != nil {
			return fmt.Errorf("migrate %s: %w", direction, err)
		}
		return nil
	},
}
