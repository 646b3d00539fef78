package infrastructure

import (
	"fmt"

	"registrar/events"
)

// SubjectPrefix is the root of every subject the bot publishes to
const SubjectPrefix = "registrar"

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject returns registrar.<guild_id>.<event_type>
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	return fmt.Sprintf("%s.%d.%s", SubjectPrefix, event.Guild(), event.Type())
}

// GetAllSubjects returns wildcard subjects covering everything this service publishes
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		fmt.Sprintf("%s.*.%s", SubjectPrefix, events.EventTypeRegistrationCompleted),
		fmt.Sprintf("%s.*.%s", SubjectPrefix, events.EventTypeManualReviewSubmitted),
		fmt.Sprintf("%s.*.%s", SubjectPrefix, events.EventTypeGuildConfigUpdated),
	}
}
