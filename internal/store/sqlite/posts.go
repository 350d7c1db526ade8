package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/fluxfeed-be/internal/models"
	"github.com/isdelr/fluxfeed-be/internal/store"
)

// PostStore persists posts in SQLite.
type PostStore struct {
	db *sql.DB
}

const postColumns = "id, title, content, creator, likes_json, created_at"

func scanPost(row interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	var likesJSON string
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.Creator, &likesJSON, &post.CreatedAt)
	if err != nil {
		return models.Post{}, err
	}
	if post.Likes, err = decodeIDs(likesJSON); err != nil {
		return models.Post{}, fmt.Errorf("decode likes for post %s: %w", post.ID, err)
	}
	return post, nil
}

// GetByID retrieves a single post by its ID.
func (s *PostStore) GetByID(ctx context.Context, id string) (models.Post, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, store.ErrNotFound
	}
	return post, err
}

// ListByCreator retrieves all posts created by one user.
func (s *PostStore) ListByCreator(ctx context.Context, creatorID string) ([]models.Post, error) {
	return s.list(ctx, "SELECT "+postColumns+" FROM posts WHERE creator = ? ORDER BY created_at ASC", creatorID)
}

// ListByCreators retrieves all posts whose creator is in creatorIDs with a
// single query, ordered by creation time ascending.
func (s *PostStore) ListByCreators(ctx context.Context, creatorIDs []string) ([]models.Post, error) {
	if len(creatorIDs) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(creatorIDs))
	for i, id := range creatorIDs {
		args[i] = id
	}
	return s.list(ctx,
		"SELECT "+postColumns+" FROM posts WHERE creator IN ("+placeholders(len(creatorIDs))+") ORDER BY created_at ASC",
		args...)
}

func (s *PostStore) list(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Create inserts a new post record.
func (s *PostStore) Create(ctx context.Context, post models.Post) error {
	likesJSON, err := encodeIDs(post.Likes)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO posts (id, title, content, creator, likes_json, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		post.ID, post.Title, post.Content, post.Creator, likesJSON, post.CreatedAt)
	return err
}

// Save replaces the stored record keyed by post.ID (upsert).
func (s *PostStore) Save(ctx context.Context, post models.Post) error {
	likesJSON, err := encodeIDs(post.Likes)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, creator, likes_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			creator = excluded.creator,
			likes_json = excluded.likes_json`,
		post.ID, post.Title, post.Content, post.Creator, likesJSON, post.CreatedAt)
	return err
}
