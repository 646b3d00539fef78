package repository

import (
	"context"
	"errors"
	"fmt"

	"registrar/database"
	"registrar/models"

	"github.com/jackc/pgx/v5"
)

// GuildConfigRepository stores guild configuration in Postgres
type GuildConfigRepository struct {
	q Queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// Get retrieves the configuration for a guild, returning nil if none exists
func (r *GuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `
		SELECT guild_id, registration_channel, manual_channel, admin_channel, admin_role, advanced_role, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`

	var config models.GuildConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&config.GuildID,
		&config.RegistrationChannelID,
		&config.ManualChannelID,
		&config.AdminChannelID,
		&config.AdminRoleID,
		&config.AdvancedRoleID,
		&config.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config for guild %d: %w", guildID, err)
	}

	return &config, nil
}

// Upsert inserts the configuration or overwrites every column of the existing row
func (r *GuildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	query := `
		INSERT INTO guild_configs (guild_id, registration_channel, manual_channel, admin_channel, admin_role, advanced_role, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		ON CONFLICT (guild_id) DO UPDATE
		SET registration_channel = EXCLUDED.registration_channel,
		    manual_channel = EXCLUDED.manual_channel,
		    admin_channel = EXCLUDED.admin_channel,
		    admin_role = EXCLUDED.admin_role,
		    advanced_role = EXCLUDED.advanced_role,
		    updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		config.GuildID,
		config.RegistrationChannelID,
		config.ManualChannelID,
		config.AdminChannelID,
		config.AdminRoleID,
		config.AdvancedRoleID,
		nullableTime(config.UpdatedAt),
	).Scan(&config.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config for guild %d: %w", config.GuildID, err)
	}

	return nil
}
