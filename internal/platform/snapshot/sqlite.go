package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite snapshot store: db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers and keeps reads consistent with them.
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS snapshots (
  namespace TEXT PRIMARY KEY,
  version INTEGER NOT NULL,
  payload BLOB NOT NULL,
  saved_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, record Record) error {
	const stmt = `
INSERT INTO snapshots (namespace, version, payload, saved_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(namespace) DO UPDATE SET
  version=excluded.version,
  payload=excluded.payload,
  saved_at=excluded.saved_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		record.Namespace,
		record.Version,
		record.Payload,
		record.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", record.Namespace, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, namespace string) (Record, error) {
	const query = `SELECT version, payload, saved_at FROM snapshots WHERE namespace = ?`
	record := Record{Namespace: namespace}
	var savedAt string
	err := s.db.QueryRowContext(ctx, query, namespace).Scan(&record.Version, &record.Payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load snapshot %s: %w", namespace, err)
	}
	record.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
	return record, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
