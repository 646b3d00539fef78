package service

import (
	"context"

	"registrar/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockRegistrationRepository is a mock implementation of RegistrationRepository
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Save(ctx context.Context, registration *models.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) ListByGuild(ctx context.Context, guildID int64, limit int) ([]*models.Registration, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Registration), args.Error(1)
}
