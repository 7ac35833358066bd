package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"blog-cms/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	login TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY,
	author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS counters (
	name TEXT PRIMARY KEY,
	next_id INTEGER NOT NULL
);
`

// SQLiteStore keeps the snapshot in a sqlite database. Each Save rewrites
// every table inside a single transaction.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	rows, err := s.db.QueryContext(ctx, `SELECT name, next_id FROM counters`)
	if err != nil {
		return nil, fmt.Errorf("query counters: %w", err)
	}
	found := false
	for rows.Next() {
		var (
			name string
			next int64
		)
		if err := rows.Scan(&name, &next); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		found = true
		switch name {
		case "user_id":
			snap.NextUserID = next
		case "post_id":
			snap.NextPostID = next
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counters: %w", err)
	}
	if !found {
		return nil, ErrNoSnapshot
	}

	if snap.Users, err = s.loadUsers(ctx); err != nil {
		return nil, err
	}
	if snap.Posts, err = s.loadPosts(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLiteStore) loadUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, email, login, created_at, updated_at
FROM users
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var (
			user             domain.User
			created, updated string
		)
		if err := rows.Scan(&user.ID, &user.Email, &user.Login, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if user.CreatedAt, user.UpdatedAt, err = parseTimestamps(created, updated); err != nil {
			return nil, fmt.Errorf("user %d: %w", user.ID, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) loadPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, author_id, title, content, created_at, updated_at
FROM posts
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var (
			post             domain.Post
			created, updated string
		)
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Content, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if post.CreatedAt, post.UpdatedAt, err = parseTimestamps(created, updated); err != nil {
			return nil, fmt.Errorf("post %d: %w", post.ID, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap domain.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM posts`, `DELETE FROM users`, `DELETE FROM counters`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	for _, u := range snap.Users {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO users (id, email, login, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Email, u.Login, formatTimestamp(u.CreatedAt), formatTimestamp(u.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert user %d: %w", u.ID, err)
		}
	}
	for _, p := range snap.Posts {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO posts (id, author_id, title, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.AuthorID, p.Title, p.Content, formatTimestamp(p.CreatedAt), formatTimestamp(p.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert post %d: %w", p.ID, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `
INSERT INTO counters (name, next_id) VALUES ('user_id', ?), ('post_id', ?)`,
		snap.NextUserID, snap.NextPostID,
	); err != nil {
		return fmt.Errorf("insert counters: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	c, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse created_at: %w", err)
	}
	u, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return c.UTC(), u.UTC(), nil
}

var _ Persister = (*SQLiteStore)(nil)
