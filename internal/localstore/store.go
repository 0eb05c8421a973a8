// Package localstore is the device-side durable store: one JSON progress
// record per account, the Go analogue of the PWA's local storage entry.
// Writes are best-effort; the progress store's operations never surface
// persistence failures.
package localstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/memorizabiblia/memoriza-api/internal/progress"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS device_state (
	account_id TEXT PRIMARY KEY,
	state TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the device database at path and runs the
// embedded migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open device db: %w", err)
	}
	if err := initDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initDB(db *sql.DB) error {
	for _, stmt := range strings.Split(migrationsSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate device db: %w", err)
		}
	}
	return nil
}

// Load returns the persisted snapshot for the account, or nil when the device
// has no record yet.
func (s *Store) Load(accountID string) (*progress.Snapshot, error) {
	var raw string
	err := s.db.QueryRow(`SELECT state FROM device_state WHERE account_id = ?`, accountID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load device state: %w", err)
	}

	var snap progress.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode device state: %w", err)
	}
	return &snap, nil
}

// Save upserts the account's snapshot.
func (s *Store) Save(accountID string, snap progress.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode device state: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO device_state (account_id, state, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(account_id)
		DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP`,
		accountID, string(raw))
	if err != nil {
		return fmt.Errorf("save device state: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
