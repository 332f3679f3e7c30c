// Package store persists the recent-documents list to SQLite: which files
// were opened and where the viewport last sat, so reopening a document
// restores its position.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS recent_documents (
	path      TEXT PRIMARY KEY,
	last_line INTEGER NOT NULL DEFAULT 0,
	opened    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recent_opened ON recent_documents(opened);
`

// keep bounds how many entries survive a prune.
const keep = 50

// Store is the recent-documents database.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Entry is one remembered document.
type Entry struct {
	Path     string
	LastLine int
	Opened   time.Time
}

// Open creates or opens the database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db}
	s.prune()
	return s, nil
}

// Close closes the database. Safe on nil.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Touch records that path was opened now, keeping any remembered line.
// No-op on nil receiver — the viewer works without a store.
func (s *Store) Touch(path string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO recent_documents (path, opened) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET opened = excluded.opened`,
		path, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to record recent document")
	}
}

// SetLastLine remembers the line the viewport was centered on.
func (s *Store) SetLastLine(path string, line int) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`UPDATE recent_documents SET last_line = ? WHERE path = ?`,
		line, path,
	)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to save view position")
	}
}

// LastLine returns the remembered line for path, if any.
func (s *Store) LastLine(path string) (int, bool) {
	if s == nil {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var line int
	err := s.db.QueryRow(
		`SELECT last_line FROM recent_documents WHERE path = ?`, path,
	).Scan(&line)
	if err != nil {
		return 0, false
	}
	return line, true
}

// Recent returns up to limit entries, most recently opened first.
func (s *Store) Recent(limit int) []Entry {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT path, last_line, opened FROM recent_documents
		 ORDER BY opened DESC LIMIT ?`, limit,
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list recent documents")
		return nil
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var opened int64
		if err := rows.Scan(&e.Path, &e.LastLine, &opened); err != nil {
			continue
		}
		e.Opened = time.Unix(opened, 0)
		out = append(out, e)
	}
	return out
}

// prune drops everything beyond the newest entries.
func (s *Store) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`DELETE FROM recent_documents WHERE path NOT IN (
			SELECT path FROM recent_documents ORDER BY opened DESC LIMIT ?
		)`, keep,
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to prune recent documents")
	}
}
