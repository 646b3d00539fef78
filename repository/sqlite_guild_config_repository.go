package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"registrar/models"
)

// SQLiteGuildConfigRepository stores guild configuration in a SQLite file
type SQLiteGuildConfigRepository struct {
	db *sql.DB
}

// NewSQLiteGuildConfigRepository creates a new SQLite guild config repository
func NewSQLiteGuildConfigRepository(db *sql.DB) *SQLiteGuildConfigRepository {
	return &SQLiteGuildConfigRepository{db: db}
}

// Get retrieves the configuration for a guild, returning nil if none exists
func (r *SQLiteGuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `
		SELECT guild_id, registration_channel, manual_channel, admin_channel, admin_role, advanced_role, updated_at
		FROM guild_configs
		WHERE guild_id = ?
	`

	var config models.GuildConfig
	err := r.db.QueryRowContext(ctx, query, guildID).Scan(
		&config.GuildID,
		&config.RegistrationChannelID,
		&config.ManualChannelID,
		&config.AdminChannelID,
		&config.AdminRoleID,
		&config.AdvancedRoleID,
		&config.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config for guild %d: %w", guildID, err)
	}

	return &config, nil
}

// Upsert replaces the row for config.GuildID
func (r *SQLiteGuildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	if config.UpdatedAt.IsZero() {
		config.UpdatedAt = time.Now().UTC()
	}

	query := `
		REPLACE INTO guild_configs (guild_id, registration_channel, manual_channel, admin_channel, admin_role, advanced_role, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		config.GuildID,
		config.RegistrationChannelID,
		config.ManualChannelID,
		config.AdminChannelID,
		config.AdminRoleID,
		config.AdvancedRoleID,
		config.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config for guild %d: %w", config.GuildID, err)
	}

	return nil
}
