package models

import "time"

// Event represents a loggable activity in the network.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // e.g., "post.created", "user.followed"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nullable for system events
	CreatedAt time.Time `json:"createdAt"`
}
