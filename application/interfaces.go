package application

import (
	"context"

	"registrar/events"
	"registrar/models"
)

// ChatClient is the outbound side of the chat platform.
// The bot package implements it on top of a Discord session.
type ChatClient interface {
	// SendMessage posts text to a channel
	SendMessage(ctx context.Context, channelID int64, content string) error

	// Reply answers msg in its channel, referencing it
	Reply(ctx context.Context, msg models.QueuedMessage, content string) error

	// AddRole grants roleID to a guild member
	AddRole(ctx context.Context, guildID, userID, roleID int64) error

	// IsAdministrator reports whether the member holds the administrator permission
	IsAdministrator(ctx context.Context, guildID, userID int64) (bool, error)
}

// EventPublisher receives domain events produced while handling messages
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event)
}
