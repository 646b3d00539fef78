package application

import (
	"context"
	"sync"

	"registrar/events"
	"registrar/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigService is a mock implementation of service.GuildConfigService
type MockGuildConfigService struct {
	mock.Mock
}

func (m *MockGuildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigService) UpdateConfig(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockRegistrationService is a mock implementation of service.RegistrationService
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Register(ctx context.Context, guildID, userID int64, name, age string) (*models.Registration, error) {
	args := m.Called(ctx, guildID, userID, name, age)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

// MockChatClient is a mock implementation of ChatClient
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) SendMessage(ctx context.Context, channelID int64, content string) error {
	args := m.Called(ctx, channelID, content)
	return args.Error(0)
}

func (m *MockChatClient) Reply(ctx context.Context, msg models.QueuedMessage, content string) error {
	args := m.Called(ctx, msg, content)
	return args.Error(0)
}

func (m *MockChatClient) AddRole(ctx context.Context, guildID, userID, roleID int64) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockChatClient) IsAdministrator(ctx context.Context, guildID, userID int64) (bool, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher collects emitted events synchronously
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Emit(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func testGuildConfig() *models.GuildConfig {
	return &models.GuildConfig{
		GuildID:               100,
		RegistrationChannelID: 200,
		ManualChannelID:       300,
		AdminChannelID:        400,
		AdminRoleID:           500,
		AdvancedRoleID:        600,
	}
}

func testMessage(channelID int64, content string) models.QueuedMessage {
	return models.QueuedMessage{
		MessageID: 9000,
		GuildID:   100,
		ChannelID: channelID,
		AuthorID:  42,
		Content:   content,
	}
}
