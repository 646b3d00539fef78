package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"registrar/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "registrar"

// Publisher is the transport the forwarder publishes encoded envelopes to
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps a domain event on the wire
type EventEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSEventForwarder republishes events from the in-process bus to NATS
type NATSEventForwarder struct {
	publisher     Publisher
	subjectMapper *EventSubjectMapper
	now           func() time.Time
}

// NewNATSEventForwarder creates a new forwarder
func NewNATSEventForwarder(publisher Publisher, subjectMapper *EventSubjectMapper) *NATSEventForwarder {
	return &NATSEventForwarder{
		publisher:     publisher,
		subjectMapper: subjectMapper,
		now:           time.Now,
	}
}

// Attach subscribes the forwarder to every event on the bus
func (f *NATSEventForwarder) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := f.Forward(ctx, event); err != nil {
			log.WithError(err).WithField("eventType", event.Type()).Error("Failed to forward event to NATS")
		}
	})
}

// Forward encodes the event in an envelope and publishes it
func (f *NATSEventForwarder) Forward(ctx context.Context, event events.Event) error {
	envelope, err := f.Envelope(event)
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := f.subjectMapper.MapEventToSubject(event)
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")

	return nil
}

// Envelope builds the wire envelope for event
func (f *NATSEventForwarder) Envelope(event events.Event) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &EventEnvelope{
		EventID:   uuid.New().String(),
		EventType: string(event.Type()),
		Timestamp: f.now().UTC(),
		Source:    sourceService,
		Payload:   payload,
	}, nil
}
