package models

import "time"

// User represents a registered account in the network.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	Friends      []string  `json:"friends"` // Ordered, duplicates allowed
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayName is the user's first and last name joined with a space.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
