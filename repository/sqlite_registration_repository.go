package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"registrar/models"
)

// SQLiteRegistrationRepository stores registrations in a SQLite file
type SQLiteRegistrationRepository struct {
	db *sql.DB
}

// NewSQLiteRegistrationRepository creates a new SQLite registration repository
func NewSQLiteRegistrationRepository(db *sql.DB) *SQLiteRegistrationRepository {
	return &SQLiteRegistrationRepository{db: db}
}

// Save appends a registration row
func (r *SQLiteRegistrationRepository) Save(ctx context.Context, registration *models.Registration) error {
	createdAt := time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (guild_id, user_id, name, age, created_at) VALUES (?, ?, ?, ?, ?)`,
		registration.GuildID,
		registration.UserID,
		registration.Name,
		registration.Age,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save registration for guild %d: %w", registration.GuildID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read registration id: %w", err)
	}

	registration.ID = id
	registration.CreatedAt = createdAt
	return nil
}

// ListByGuild returns the newest registrations for a guild
func (r *SQLiteRegistrationRepository) ListByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Registration, error) {
	query := `
		SELECT id, guild_id, user_id, name, age, created_at
		FROM registrations
		WHERE guild_id = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var registrations []*models.Registration
	for rows.Next() {
		var registration models.Registration
		if err := rows.Scan(
			&registration.ID,
			&registration.GuildID,
			&registration.UserID,
			&registration.Name,
			&registration.Age,
			&registration.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, &registration)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return registrations, nil
}
