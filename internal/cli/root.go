// Package cli holds the dues_backend command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/platform/config"
	"github.com/SscSPs/dues_ledger/internal/platform/logging"
	"github.com/SscSPs/dues_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/dues_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/dues_ledger/pkg/database"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dues_backend",
	Short: "Member dues ledger",
	Long: `dues_backend records member debts and payments. Every payment is applied
to the member's oldest outstanding debts first.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.IsProduction)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openStore connects to the configured backend and returns its repositories
// together with a function that releases the connection.
func openStore(ctx context.Context, cfg *config.Config) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case database.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return sqlite.NewRepositoryProvider(db), func() { db.Close() }, nil
	case database.DriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(pool), pool.Close, nil
	default:
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
