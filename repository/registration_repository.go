package repository

import (
	"context"
	"fmt"

	"registrar/database"
	"registrar/models"
)

// RegistrationRepository stores registrations in Postgres
type RegistrationRepository struct {
	q Queryable
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{q: db.Pool}
}

// Save appends a registration row
func (r *RegistrationRepository) Save(ctx context.Context, registration *models.Registration) error {
	query := `
		INSERT INTO registrations (guild_id, user_id, name, age)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		registration.GuildID,
		registration.UserID,
		registration.Name,
		registration.Age,
	).Scan(&registration.ID, &registration.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save registration for guild %d: %w", registration.GuildID, err)
	}

	return nil
}

// ListByGuild returns the newest registrations for a guild
func (r *RegistrationRepository) ListByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Registration, error) {
	query := `
		SELECT id, guild_id, user_id, name, age, created_at
		FROM registrations
		WHERE guild_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
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
