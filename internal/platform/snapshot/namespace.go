package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Namespace binds a Store to one namespace and schema version and encodes S
// as CBOR.
type Namespace[S any] struct {
	store   Store
	name    string
	version int
	now     func() time.Time
	logger  *slog.Logger
}

func NewNamespace[S any](store Store, name string, version int, logger *slog.Logger) *Namespace[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Namespace[S]{
		store:   store,
		name:    name,
		version: version,
		now:     time.Now,
		logger:  logger.With("namespace", name),
	}
}

func (n *Namespace[S]) Name() string { return n.name }

func (n *Namespace[S]) Version() int { return n.version }

// Load returns false when there is no usable snapshot: none stored, a
// different version stored, or an undecodable payload. Those cases are
// logged, never returned.
func (n *Namespace[S]) Load(ctx context.Context) (S, bool) {
	var zero S
	record, err := n.store.Load(ctx, n.name)
	if errors.Is(err, ErrNotFound) {
		n.logger.Debug("no snapshot stored")
		return zero, false
	}
	if err != nil {
		n.logger.Warn("snapshot unreadable, starting empty", "error", err)
		return zero, false
	}
	if record.Version != n.version {
		n.logger.Info("discarding snapshot with other version", "stored_version", record.Version, "version", n.version)
		return zero, false
	}
	var value S
	if err := Unmarshal(record.Payload, &value); err != nil {
		n.logger.Warn("snapshot corrupt, starting empty", "error", err)
		return zero, false
	}
	return value, true
}

func (n *Namespace[S]) Save(ctx context.Context, value S) error {
	payload, err := Marshal(value)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", n.name, err)
	}
	return n.store.Save(ctx, Record{
		Namespace: n.name,
		Version:   n.version,
		Payload:   payload,
		SavedAt:   n.now(),
	})
}
