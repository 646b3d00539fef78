package repository

import (
	"context"
	"fmt"

	"registrar/database"
	"registrar/service"

	log "github.com/sirupsen/logrus"
)

// Store bundles the repositories backed by one database handle
type Store struct {
	Driver        database.Driver
	GuildConfigs  service.GuildConfigRepository
	Registrations service.RegistrationRepository

	close func() error
}

// Open connects to the database selected by databaseURL and builds its repositories.
// Migrations are applied first when migrate is true.
func Open(ctx context.Context, databaseURL string, migrate bool) (*Store, error) {
	driver, err := database.DriverFor(databaseURL)
	if err != nil {
		return nil, err
	}

	if migrate {
		log.WithField("driver", driver).Info("Applying database migrations...")
		if err := database.MigrateUp(databaseURL); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	switch driver {
	case database.DriverPostgres:
		db, err := database.NewConnection(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:        driver,
			GuildConfigs:  NewGuildConfigRepository(db),
			Registrations: NewRegistrationRepository(db),
			close: func() error {
				db.Close()
				return nil
			},
		}, nil

	default:
		db, err := database.NewSQLiteConnection(ctx, database.SQLitePath(databaseURL))
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:        driver,
			GuildConfigs:  NewSQLiteGuildConfigRepository(db.DB),
			Registrations: NewSQLiteRegistrationRepository(db.DB),
			close:         db.Close,
		}, nil
	}
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
