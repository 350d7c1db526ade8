// Package sqlite implements the store contracts on a single SQLite file.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store bundles the entity stores sharing one database handle.
type Store struct {
	Users    *UserStore
	Posts    *PostStore
	Comments *CommentStore
	Events   *EventStore

	db *sql.DB
}

// Open opens the database, applies migrations, and returns the
// entity stores.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{
		Users:    &UserStore{db: db},
		Posts:    &PostStore{db: db},
		Comments: &CommentStore{db: db},
		Events:   &EventStore{db: db},
		db:       db,
	}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the raw handle for ad-hoc queries (row counts, tests).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate runs the SQL statements to set up the database schema.
// Ordered ID sequences (friends, likes) are stored as JSON text so that
// order and duplicates survive round trips.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		avatar_url TEXT,
		friends_json TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS posts (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		creator TEXT NOT NULL,
		likes_json TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_posts_creator ON posts(creator);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT NOT NULL PRIMARY KEY,
		message TEXT NOT NULL,
		post_id TEXT NOT NULL,
		creator TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		user_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// encodeIDs serializes an ordered ID sequence for a JSON text column.
func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeIDs restores an ordered ID sequence from a JSON text column.
func decodeIDs(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// placeholders builds the "?, ?, ?" fragment for an IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
