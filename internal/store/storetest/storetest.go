// Package storetest provides in-memory store implementations for tests.
// They mirror the SQLite adapter's observable behavior: sentinel errors,
// batched in-set lookups, and ascending creation-time ordering where the
// contract requires it.
package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/isdelr/fluxfeed-be/internal/store"
)

// UserStore is an in-memory store.UserStore.
type UserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s *UserStore) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool, len(ids))
	var users []models.User
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if user, ok := s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *UserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *UserStore) Save(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// PostStore is an in-memory store.PostStore.
type PostStore struct {
	mu    sync.Mutex
	posts map[string]models.Post
}

// NewPostStore creates an empty in-memory post store.
func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[string]models.Post)}
}

func (s *PostStore) GetByID(_ context.Context, id string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return models.Post{}, store.ErrNotFound
	}
	return post, nil
}

func (s *PostStore) ListByCreator(_ context.Context, creatorID string) ([]models.Post, error) {
	return s.listWhere(func(p models.Post) bool { return p.Creator == creatorID })
}

func (s *PostStore) ListByCreators(_ context.Context, creatorIDs []string) ([]models.Post, error) {
	in := make(map[string]bool, len(creatorIDs))
	for _, id := range creatorIDs {
		in[id] = true
	}
	return s.listWhere(func(p models.Post) bool { return in[p.Creator] })
}

func (s *PostStore) listWhere(match func(models.Post) bool) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []models.Post
	for _, post := range s.posts {
		if match(post) {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *PostStore) Create(_ context.Context, post models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post
	return nil
}

func (s *PostStore) Save(_ context.Context, post models.Post) error {
	return s.Create(context.Background(), post)
}

// CommentStore is an in-memory store.CommentStore.
type CommentStore struct {
	mu       sync.Mutex
	comments []models.Comment
}

// NewCommentStore creates an empty in-memory comment store.
func NewCommentStore() *CommentStore {
	return &CommentStore{}
}

func (s *CommentStore) ListByPost(_ context.Context, postID string) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []models.Comment
	for _, comment := range s.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (s *CommentStore) Create(_ context.Context, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, comment)
	return nil
}

// EventStore is an in-memory store.EventStore.
type EventStore struct {
	mu     sync.Mutex
	events []models.Event
}

// NewEventStore creates an empty in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Create(_ context.Context, event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *EventStore) Recent(_ context.Context, limit int) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []models.Event
	for i := len(s.events) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, s.events[i])
	}
	return events, nil
}
