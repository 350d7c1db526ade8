package models

import "time"

// Post represents a piece of content published by a user.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Creator   string    `json:"creator"` // User ID, not an embedded user
	Likes     []string  `json:"-"`       // User IDs; duplicates allowed, exposed as a count
	CreatedAt time.Time `json:"createdAt"`
}

// LikeCount is the number of recorded likes, counting repeats.
func (p Post) LikeCount() int {
	return len(p.Likes)
}
