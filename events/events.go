package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRegistrationCompleted EventType = "registration_completed"
	EventTypeManualReviewSubmitted EventType = "manual_review_submitted"
	EventTypeGuildConfigUpdated    EventType = "guild_config_updated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	// Guild returns the guild the event happened in
	Guild() int64
}

// RegistrationCompletedEvent is emitted once a registration is stored and the advanced role granted
type RegistrationCompletedEvent struct {
	RegistrationID int64  `json:"registration_id"`
	GuildID        int64  `json:"guild_id"`
	UserID         int64  `json:"user_id"`
	Name           string `json:"name"`
	Age            string `json:"age"`
	RoleID         int64  `json:"role_id"`
}

func (e RegistrationCompletedEvent) Type() EventType {
	return EventTypeRegistrationCompleted
}

func (e RegistrationCompletedEvent) Guild() int64 {
	return e.GuildID
}

// ManualReviewSubmittedEvent is emitted after the admin alert for a manual review was posted
type ManualReviewSubmittedEvent struct {
	GuildID        int64  `json:"guild_id"`
	UserID         int64  `json:"user_id"`
	Content        string `json:"content"`
	AdminChannelID int64  `json:"admin_channel_id"`
}

func (e ManualReviewSubmittedEvent) Type() EventType {
	return EventTypeManualReviewSubmitted
}

func (e ManualReviewSubmittedEvent) Guild() int64 {
	return e.GuildID
}

// GuildConfigUpdatedEvent is emitted when an administrator rewrites a guild's configuration
type GuildConfigUpdatedEvent struct {
	GuildID               int64 `json:"guild_id"`
	UpdatedBy             int64 `json:"updated_by"`
	RegistrationChannelID int64 `json:"registration_channel_id"`
	ManualChannelID       int64 `json:"manual_channel_id"`
	AdminChannelID        int64 `json:"admin_channel_id"`
	AdminRoleID           int64 `json:"admin_role_id"`
	AdvancedRoleID        int64 `json:"advanced_role_id"`
}

func (e GuildConfigUpdatedEvent) Type() EventType {
	return EventTypeGuildConfigUpdated
}

func (e GuildConfigUpdatedEvent) Guild() int64 {
	return e.GuildID
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	all      []Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler that receives every event type
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, handler)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.all))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"guildID":      event.Guild(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers must not hold up message processing
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
