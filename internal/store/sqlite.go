package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/klisp-lang/klisp/internal/reader"
	"github.com/klisp-lang/klisp/internal/value"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the current on-disk schema version.
const SchemaVersion = "1"

// SQLite is a modernc.org/sqlite-backed store. Bindings are serialized
// with value.Show (the quoted form, so a Str round-trips as a Str rather
// than being misread as a Symbol) and re-parsed with the reader on Get;
// this round-trips every literal and list form. A Lambda or Macro prints
// only its keyword and parameter shape, so its body (and a Lambda's
// captured environment) is lost, and a reload yields that printed shape
// as a plain list rather than a Lambda or Macro.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (creating if necessary) a SQLite-backed store at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bindings (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}
	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	if version == "" {
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	} else if version != SchemaVersion {
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

func (s *SQLite) Get(name string) (value.Value, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var printed string
	err := s.db.QueryRow("SELECT value FROM bindings WHERE name = ?", name).Scan(&printed)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	v, _, err := reader.Read(printed)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *SQLite) Put(name string, v value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO bindings (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value",
		name, value.Show(v),
	)
	return err
}

func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM bindings WHERE name = ?", name)
	return err
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
