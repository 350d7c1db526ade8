package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/fluxfeed-be/internal/auth"
	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/isdelr/fluxfeed-be/internal/store"
)

// ErrInvalidCredentials is returned on any login failure. Unknown email and
// wrong password are deliberately indistinguishable so callers cannot
// enumerate registered addresses.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (models.User, string, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	UpdateAvatar(ctx context.Context, userID, url string) (models.User, error)
	Follow(ctx context.Context, userID, friendID string) (models.User, error)
}

// UserService provides business logic for accounts and the social graph.
type UserService struct {
	users  store.UserStore
	hasher *auth.Hasher
	tokens *auth.TokenCodec
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore, hasher *auth.Hasher, tokens *auth.TokenCodec, events EventServiceProvider) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens, events: events}
}

// Register creates a new account and returns it with a freshly minted
// session token. Fails with store.ErrDuplicateEmail if the email is taken;
// a hashing failure aborts registration entirely.
func (s *UserService) Register(ctx context.Context, firstName, lastName, email, password string) (models.User, string, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		Friends:      []string{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, "", err
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("mint token: %w", err)
	}

	s.events.Record(ctx, "user.registered", user.DisplayName()+" joined", &user.ID)
	return user, token, nil
}

// Login authenticates a user and returns a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("mint token: %w", err)
	}
	return user, token, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateAvatar replaces the user's avatar URL and returns the updated user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, url string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	user.AvatarURL = &url
	if err := s.users.Save(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Follow appends friendID to the user's friends list and returns the
// updated user. Repeat follows append again; the friend list keeps its
// order and duplicates. The friend ID is not checked for existence, and
// resolvers tolerate dangling entries.
func (s *UserService) Follow(ctx context.Context, userID, friendID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	user.Friends = append(user.Friends, friendID)
	if err := s.users.Save(ctx, user); err != nil {
		return models.User{}, err
	}

	s.events.Record(ctx, "user.followed", user.DisplayName()+" followed a user", &user.ID)
	return user, nil
}
