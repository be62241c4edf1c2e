// Package storage provides SQLite-based persistence for the sprite library
// and recorded play sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SpriteEntry describes one sprite in the library.
type SpriteEntry struct {
	Name       string
	Origin     string // file the sprite was imported from
	Animations []string
	ImportedAt time.Time
}

// Session is one recorded play session.
type Session struct {
	ID        int64
	Scene     string
	Ticks     int64
	Culled    int64 // entity-ticks spent off screen
	Duration  time.Duration
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sprites (
			name TEXT PRIMARY KEY,
			origin TEXT NOT NULL,
			data BLOB NOT NULL,
			animations TEXT NOT NULL DEFAULT '',
			imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene TEXT NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			culled INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSprite stores the raw sprite document under name, replacing any
// sprite with the same name.
func (s *Store) SaveSprite(name, origin string, data []byte, animations []string) error {
	_, err := s.db.Exec(
		`INSERT INTO sprites (name, origin, data, animations, imported_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   origin = excluded.origin,
		   data = excluded.data,
		   animations = excluded.animations,
		   imported_at = excluded.imported_at`,
		name, origin, data, strings.Join(animations, ","),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save sprite %s: %w", name, err)
	}
	return nil
}

// SpriteData returns the raw document stored under name.
// Returns nil, nil when no such sprite exists.
func (s *Store) SpriteData(name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM sprites WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sprite %s: %w", name, err)
	}
	return data, nil
}

// ListSprites returns every sprite in the library, sorted by name.
func (s *Store) ListSprites() ([]SpriteEntry, error) {
	rows, err := s.db.Query(
		`SELECT name, origin, animations, imported_at
		 FROM sprites
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sprites: %w", err)
	}
	defer rows.Close()

	var entries []SpriteEntry
	for rows.Next() {
		var e SpriteEntry
		var animations string
		var importedAt any
		if err := rows.Scan(&e.Name, &e.Origin, &animations, &importedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if animations != "" {
			e.Animations = strings.Split(animations, ",")
		}
		e.ImportedAt = parseTime(importedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RemoveSprite deletes a sprite. It reports whether a row was removed.
func (s *Store) RemoveSprite(name string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM sprites WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("storage: cannot remove sprite %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot count removed rows: %w", err)
	}
	return n > 0, nil
}

// SaveSession records a finished play session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(sess Session) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO sessions (scene, ticks, culled, duration_ms) VALUES (?, ?, ?, ?)",
		sess.Scene, sess.Ticks, sess.Culled, sess.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, scene, ticks, culled, duration_ms, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&sess.ID, &sess.Scene, &sess.Ticks, &sess.Culled, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.Duration = time.Duration(durationMS) * time.Millisecond
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
