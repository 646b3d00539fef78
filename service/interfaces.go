package service

import (
	"context"

	"registrar/models"
)

// GuildConfigRepository defines the interface for guild configuration storage
type GuildConfigRepository interface {
	// Get returns the configuration for a guild, or nil if none has been written
	Get(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// Upsert inserts or fully replaces the configuration for config.GuildID
	Upsert(ctx context.Context, config *models.GuildConfig) error
}

// RegistrationRepository defines the interface for registration storage
type RegistrationRepository interface {
	// Save appends a registration and fills in its ID and CreatedAt
	Save(ctx context.Context, registration *models.Registration) error

	// ListByGuild returns the most recent registrations for a guild, newest first
	ListByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Registration, error)
}

// GuildConfigService defines guild configuration operations
type GuildConfigService interface {
	// GetConfig returns the guild configuration, or nil if the guild is not configured
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// UpdateConfig validates and stores a full replacement configuration
	UpdateConfig(ctx context.Context, config *models.GuildConfig) error
}

// RegistrationService defines registration operations
type RegistrationService interface {
	// Register records a registration form submission
	Register(ctx context.Context, guildID, userID int64, name, age string) (*models.Registration, error)
}
