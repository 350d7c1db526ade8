// Package store defines the persistence contracts consumed by the service
// and resolver layers. Implementations live in subpackages; the rest of the
// codebase only sees these interfaces.
package store

import (
	"context"
	"errors"

	"github.com/isdelr/fluxfeed-be/internal/models"
)

// ErrNotFound is returned when a lookup by identifier matches nothing.
var ErrNotFound = errors.New("entity not found")

// ErrDuplicateEmail is returned when creating a user with an email that is
// already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// UserStore persists User records.
type UserStore interface {
	// GetByID returns the user with the given ID, or ErrNotFound.
	GetByID(ctx context.Context, id string) (models.User, error)
	// GetByEmail returns the user with the given email including the
	// password hash, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// ListByIDs returns the users whose ID is in ids, in no particular
	// order. IDs matching nothing are silently skipped.
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
	// Create inserts a new user. Fails with ErrDuplicateEmail on an email
	// collision.
	Create(ctx context.Context, user models.User) error
	// Save replaces the stored record keyed by user.ID (upsert).
	Save(ctx context.Context, user models.User) error
}

// PostStore persists Post records.
type PostStore interface {
	GetByID(ctx context.Context, id string) (models.Post, error)
	// ListByCreator returns all posts created by one user.
	ListByCreator(ctx context.Context, creatorID string) ([]models.Post, error)
	// ListByCreators returns all posts whose creator is in creatorIDs,
	// ordered by creation time ascending.
	ListByCreators(ctx context.Context, creatorIDs []string) ([]models.Post, error)
	Create(ctx context.Context, post models.Post) error
	Save(ctx context.Context, post models.Post) error
}

// CommentStore persists Comment records. Comments are immutable, so there
// is no Save.
type CommentStore interface {
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Create(ctx context.Context, comment models.Comment) error
}

// EventStore persists activity events.
type EventStore interface {
	Create(ctx context.Context, event models.Event) error
	Recent(ctx context.Context, limit int) ([]models.Event, error)
}
