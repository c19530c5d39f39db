package store

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-process backend. It backs tests and
// throwaway local runs only; the durable store remains the source of truth
// in any real deployment.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[string]map[string]string)}
}

func (s *MemoryStore) Put(ctx context.Context, table, key string, attrs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.tables[table]
	if !ok {
		records = make(map[string]map[string]string)
		s.tables[table] = records
	}

	stored := make(map[string]string, len(attrs)+1)
	for name, value := range attrs {
		stored[name] = value
	}
	stored[KeyAttribute] = key
	records[key] = stored
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, table, key string) (map[string]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attrs, ok := s.tables[table][key]
	if !ok {
		return nil, false, nil
	}
	return copyAttrs(attrs), true, nil
}

func (s *MemoryStore) Scan(ctx context.Context, table string) ([]map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []map[string]string
	for _, attrs := range s.tables[table] {
		records = append(records, copyAttrs(attrs))
	}
	return records, nil
}

func (s *MemoryStore) Delete(ctx context.Context, table, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables[table], key)
	return nil
}

var _ Store = (*MemoryStore)(nil)

func copyAttrs(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for name, value := range attrs {
		out[name] = value
	}
	return out
}
