/*
Package sqlite persists ledger snapshots.

PURPOSE:
  The ledger itself is in-memory; this store saves and restores its
  snapshot exchange payload under a name. The payload is the same JSON
  the API exchanges, so anything loadable here is loadable everywhere.

KEY TABLE:
  snapshots: name (PK), payload (JSON), saved_at

WAL MODE:
  SQLite is opened with WAL so readers don't block the single writer.

FAILURE SEMANTICS:
  Load returns cashflow.ErrSnapshotNotFound when no snapshot exists under
  the name, and surfaces decode failures (ErrSnapshotInvalid) to the
  caller, which falls back to empty/default state.

USAGE:
  store, err := sqlite.New("./data/cashflow.db")
  ...
  defer store.Close()

SEE ALSO:
  - cashflow/snapshot.go: the exchange format and codec
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fluxo/cashflow-engine/cashflow"
)

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		name     TEXT PRIMARY KEY,
		payload  TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts a snapshot under the given name.
func (s *Store) Save(ctx context.Context, name string, snap cashflow.Snapshot) error {
	payload, err := cashflow.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (name, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		name, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", name, err)
	}
	return nil
}

// Load restores the snapshot saved under the given name.
func (s *Store) Load(ctx context.Context, name string) (*cashflow.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE name = ?`, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", cashflow.ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", name, err)
	}
	return cashflow.DecodeSnapshot([]byte(payload))
}

// Info describes one saved snapshot.
type Info struct {
	Name    string
	SavedAt string
}

// List returns saved snapshots, most recent first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, saved_at FROM snapshots ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.Name, &info.SavedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
