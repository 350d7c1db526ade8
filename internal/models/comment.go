package models

import "time"

// Comment represents a reply attached to a post. Comments are immutable
// after creation.
type Comment struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	PostID    string    `json:"postId"`
	Creator   string    `json:"creator"` // User ID
	CreatedAt time.Time `json:"createdAt"`
}
