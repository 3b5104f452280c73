package snapshot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nebibs/internal/platform/logging"
	"nebibs/internal/platform/snapshot"
)

type payload struct {
	Items []string `cbor:"items"`
	Error string   `cbor:"error"`
}

func openStores(t *testing.T) map[string]snapshot.Store {
	t.Helper()
	dir := t.TempDir()
	sqliteStore, err := snapshot.Open(snapshot.Config{Backend: snapshot.BackendSQLite, DBPath: filepath.Join(dir, "db", "nebibs.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	fileStore, err := snapshot.Open(snapshot.Config{Backend: snapshot.BackendFile, Dir: filepath.Join(dir, "files")})
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	memoryStore, err := snapshot.Open(snapshot.Config{Backend: snapshot.BackendMemory})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	return map[string]snapshot.Store{"sqlite": sqliteStore, "file": fileStore, "memory": memoryStore}
}

func TestStoresRoundTripAndNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, store := range openStores(t) {
		if _, err := store.Load(ctx, "absent"); !errors.Is(err, snapshot.ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
		saved := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
		for _, body := range []string{"first", "second"} {
			if err := store.Save(ctx, snapshot.Record{Namespace: "ns", Version: 1, Payload: []byte(body), SavedAt: saved}); err != nil {
				t.Fatalf("%s: save: %v", name, err)
			}
		}
		record, err := store.Load(ctx, "ns")
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if string(record.Payload) != "second" || record.Version != 1 || !record.SavedAt.Equal(saved) {
			t.Fatalf("%s: unexpected record %+v", name, record)
		}
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	t.Parallel()
	if _, err := snapshot.Open(snapshot.Config{Backend: "redis"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNamespaceRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ns := snapshot.NewNamespace[payload](snapshot.NewMemoryStore(), "nebibs-test", 1, logging.Discard())
	if _, ok := ns.Load(ctx); ok {
		t.Fatalf("empty store should have no snapshot")
	}
	want := payload{Items: []string{"a", "b"}, Error: "Failed"}
	if err := ns.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := ns.Load(ctx)
	if !ok || len(got.Items) != 2 || got.Items[1] != "b" || got.Error != "Failed" {
		t.Fatalf("unexpected snapshot %+v %v", got, ok)
	}
}

func TestNamespaceVersionMismatchDiscards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	v1 := snapshot.NewNamespace[payload](store, "nebibs-test", 1, logging.Discard())
	if err := v1.Save(ctx, payload{Items: []string{"a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	v2 := snapshot.NewNamespace[payload](store, "nebibs-test", 2, logging.Discard())
	if _, ok := v2.Load(ctx); ok {
		t.Fatalf("version mismatch should yield no snapshot")
	}
}

func TestNamespaceCorruptPayloadYieldsNone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	if err := store.Save(ctx, snapshot.Record{Namespace: "nebibs-test", Version: 1, Payload: []byte{0xff, 0x00, 0x13}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ns := snapshot.NewNamespace[payload](store, "nebibs-test", 1, logging.Discard())
	if _, ok := ns.Load(ctx); ok {
		t.Fatalf("corrupt payload should yield no snapshot")
	}
}

func TestFileStoreCorruptFileYieldsNone(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "nebibs-test.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ns := snapshot.NewNamespace[payload](snapshot.NewFileStore(dir), "nebibs-test", 1, logging.Discard())
	if _, ok := ns.Load(context.Background()); ok {
		t.Fatalf("unreadable file should yield no snapshot")
	}
}
