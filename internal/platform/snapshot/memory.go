package snapshot

import (
	"context"
	"slices"
	"sync"
)

type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Payload = slices.Clone(record.Payload)
	s.records[record.Namespace] = record
	return nil
}

func (s *MemoryStore) Load(_ context.Context, namespace string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[namespace]
	if !ok {
		return Record{}, ErrNotFound
	}
	record.Payload = slices.Clone(record.Payload)
	return record, nil
}

func (s *MemoryStore) Close() error { return nil }
