package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/isdelr/fluxfeed-be/internal/store"
	"github.com/rs/zerolog/log"
)

// Notifier pushes an activity event to connected clients.
type Notifier interface {
	Notify(event models.Event)
}

// EventServiceProvider defines the interface for activity event services.
type EventServiceProvider interface {
	Record(ctx context.Context, eventType, message string, userID *string)
	Recent(ctx context.Context, limit int) ([]models.Event, error)
}

// EventService records activity events and fans them out to the notifier.
type EventService struct {
	events   store.EventStore
	notifier Notifier
}

// NewEventService creates a new EventService. notifier may be nil.
func NewEventService(events store.EventStore, notifier Notifier) *EventService {
	return &EventService{events: events, notifier: notifier}
}

// Record logs an activity event. Recording is best-effort: a failed write
// or broadcast must never fail the mutation that produced the event, so
// errors are logged and swallowed here.
func (s *EventService) Record(ctx context.Context, eventType, message string, userID *string) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record activity event")
		return
	}
	if s.notifier != nil {
		s.notifier.Notify(event)
	}
}

// Recent retrieves the most recent activity events.
func (s *EventService) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	return s.events.Recent(ctx, limit)
}
