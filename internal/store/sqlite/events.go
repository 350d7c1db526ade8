package sqlite

import (
	"context"
	"database/sql"

	"github.com/isdelr/fluxfeed-be/internal/models"
)

// EventStore persists activity events in SQLite.
type EventStore struct {
	db *sql.DB
}

// Create inserts a new event record.
func (s *EventStore) Create(ctx context.Context, event models.Event) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, message, user_id, created_at) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Message, event.UserID, event.CreatedAt)
	return err
}

// Recent retrieves the most recent events, newest first.
func (s *EventStore) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, message, user_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Message, &event.UserID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
