// Package snapshot persists one opaque, versioned blob per namespace so view
// state survives restarts. Stores never interpret payloads; Namespace
// encodes and decodes them.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("snapshot not found")

type Record struct {
	Namespace string
	Version   int
	Payload   []byte
	SavedAt   time.Time
}

// Store writes and reads whole records atomically.
type Store interface {
	Save(ctx context.Context, record Record) error
	// Load returns ErrNotFound when the namespace has no record.
	Load(ctx context.Context, namespace string) (Record, error)
	Close() error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

type Config struct {
	Backend Backend
	// DBPath is used by the sqlite backend.
	DBPath string
	// Dir is used by the file backend.
	Dir string
}

func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return NewSQLiteStore(cfg.DBPath)
	case BackendFile:
		return NewFileStore(cfg.Dir), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}
