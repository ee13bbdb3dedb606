package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/dues_ledger/migrations"
	migrate "github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" for database/sql
)

// Supported values for the DB_DRIVER setting.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Direction selects which way migrations run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies the embedded migrations for driver against dsn
// (a PostgreSQL URL or a SQLite file path). It opens and closes its own
// connection, separate from the application's pool.
func RunMigrations(logger *slog.Logger, driver, dsn string, direction Direction) error {
	m, err := newMigrate(driver, dsn)
	if err != nil {
		return err
	}

	switch direction {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		err = fmt.Errorf("unknown migration direction %q", direction)
	}
	noChange := errors.Is(err, migrate.ErrNoChange)
	if err != nil && !noChange {
		m.Close()
		return fmt.Errorf("failed to apply migrations (%s): %w", direction, err)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if noChange {
		logger.Info("No new migrations to apply.", slog.String("driver", driver))
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("driver", driver), slog.String("direction", string(direction)))
	}
	return nil
}

func newMigrate(driver, dsn string) (*migrate.Migrate, error) {
	var (
		db       *sql.DB
		instance migratedb.Driver
		err      error
	)

	switch driver {
	case DriverPostgres:
		// Using pgx/v5/stdlib driver to be compatible with the main pool
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection for migrations: %w", err)
		}
		if err = db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database for migrations: %w", err)
		}
		instance, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		db, err = sql.Open("sqlite", SQLiteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection for migrations: %w", err)
		}
		instance, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create %s driver instance for migrations: %w", driver, err)
	}

	source, err := iofs.New(migrations.FS, driver)
	if err != nil {
		instance.Close()
		return nil, fmt.Errorf("could not read embedded migrations for %s: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		instance.Close()
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}
