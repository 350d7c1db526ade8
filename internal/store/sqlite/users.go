package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/isdelr/fluxfeed-be/internal/store"
)

// UserStore persists users in SQLite.
type UserStore struct {
	db *sql.DB
}

const userColumns = "id, first_name, last_name, email, password_hash, avatar_url, friends_json, created_at"

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var friendsJSON string
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.PasswordHash, &user.AvatarURL, &friendsJSON, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	if user.Friends, err = decodeIDs(friendsJSON); err != nil {
		return models.User{}, fmt.Errorf("decode friends for user %s: %w", user.ID, err)
	}
	return user, nil
}

// GetByID retrieves a single user by their ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, store.ErrNotFound
	}
	return user, err
}

// GetByEmail retrieves a single user by their email, including the password hash.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, store.ErrNotFound
	}
	return user, err
}

// ListByIDs retrieves all users whose ID is in ids with a single query.
func (s *UserStore) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Create inserts a new user record.
func (s *UserStore) Create(ctx context.Context, user models.User) error {
	friendsJSON, err := encodeIDs(user.Friends)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, first_name, last_name, email, password_hash, avatar_url, friends_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.AvatarURL, friendsJSON, user.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrDuplicateEmail
	}
	return err
}

// Save replaces the stored record keyed by user.ID (upsert).
func (s *UserStore) Save(ctx context.Context, user models.User) error {
	friendsJSON, err := encodeIDs(user.Friends)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash, avatar_url, friends_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			password_hash = excluded.password_hash,
			avatar_url = excluded.avatar_url,
			friends_json = excluded.friends_json`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.AvatarURL, friendsJSON, user.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrDuplicateEmail
	}
	return err
}
