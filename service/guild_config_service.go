package service

import (
	"context"
	"fmt"
	"time"

	"registrar/models"
)

// guildConfigService implements the GuildConfigService interface
type guildConfigService struct {
	repo GuildConfigRepository
	now  func() time.Time
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(repo GuildConfigRepository) GuildConfigService {
	return &guildConfigService{
		repo: repo,
		now:  time.Now,
	}
}

// GetConfig retrieves the configuration for a guild
func (s *guildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	config, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	return config, nil
}

// UpdateConfig replaces the configuration for a guild
func (s *guildConfigService) UpdateConfig(ctx context.Context, config *models.GuildConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	ids := map[string]int64{
		"guild":                config.GuildID,
		"registration channel": config.RegistrationChannelID,
		"manual channel":       config.ManualChannelID,
		"admin channel":        config.AdminChannelID,
		"admin role":           config.AdminRoleID,
		"advanced role":        config.AdvancedRoleID,
	}
	for field, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: %s id must be positive", ErrInvalidConfig, field)
		}
	}

	config.UpdatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, config); err != nil {
		return fmt.Errorf("failed to update guild config: %w", err)
	}

	return nil
}
