package sqlite

import (
	"context"
	"database/sql"

	"github.com/isdelr/fluxfeed-be/internal/models"
)

// CommentStore persists comments in SQLite.
type CommentStore struct {
	db *sql.DB
}

// ListByPost retrieves all comments attached to one post, oldest first.
func (s *CommentStore) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, message, post_id, creator, created_at FROM comments WHERE post_id = ? ORDER BY created_at ASC", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.Message, &comment.PostID, &comment.Creator, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Create inserts a new comment record.
func (s *CommentStore) Create(ctx context.Context, comment models.Comment) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (id, message, post_id, creator, created_at) VALUES (?, ?, ?, ?, ?)",
		comment.ID, comment.Message, comment.PostID, comment.Creator, comment.CreatedAt)
	return err
}
