package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrationStatus describes the schema version of a database
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

// MigrateUp runs all pending migrations
func MigrateUp(databaseURL string) error {
	m, err := getMigrate(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No new migrations to apply")
	} else {
		version, _, _ := m.Version()
		log.Infof("Successfully migrated to version %d", version)
	}

	return nil
}

// MigrateDown rolls back the specified number of migrations
func MigrateDown(databaseURL, stepsStr string) error {
	steps, err := strconv.Atoi(stepsStr)
	if err != nil || steps <= 0 {
		return fmt.Errorf("invalid steps value %q", stepsStr)
	}

	m, err := getMigrate(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Steps(-steps)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No migrations to rollback")
	} else {
		version, _, _ := m.Version()
		log.Infof("Successfully rolled back to version %d", version)
	}

	return nil
}

// MigrateStatus returns the current migration status
func MigrateStatus(databaseURL string) (*MigrationStatus, error) {
	m, err := getMigrate(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return &MigrationStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationStatus{Version: version, Dirty: dirty, Applied: true}, nil
}

// getMigrate creates a migrate instance for whichever driver the URL selects
func getMigrate(databaseURL string) (*migrate.Migrate, error) {
	driverName, err := DriverFor(databaseURL)
	if err != nil {
		return nil, err
	}

	var (
		instance  migratedb.Driver
		sourceDir string
	)

	switch driverName {
	case DriverPostgres:
		config, err := pgxpool.ParseConfig(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse database URL: %w", err)
		}
		db := stdlib.OpenDB(*config.ConnConfig)
		instance, err = postgres.WithInstance(db, &postgres.Config{})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create postgres driver: %w", err)
		}
		sourceDir = "migrations/postgres"

	case DriverSQLite:
		path := SQLitePath(databaseURL)
		if err := ensureSQLiteDir(path); err != nil {
			return nil, err
		}
		db, err := sql.Open("sqlite3", sqliteDSN(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		instance, err = sqlite3.WithInstance(db, &sqlite3.Config{})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
		}
		sourceDir = "migrations/sqlite"
	}

	sourceDriver, err := iofs.New(migrationsFS, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(driverName), instance)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}
