package store

import (
	"context"
	"sync"
)

// MemoryStore implements Store with in-memory slices. Used for tests and as
// a fallback when PostgreSQL is not configured (local dev).
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string][]any
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][]any)}
}

func (s *MemoryStore) Insert(ctx context.Context, table string, record any) error {
	switch table {
	case TableConversations, TableVoiceCache:
	default:
		return &ErrUnknownTable{Table: table, Record: record}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[table] = append(s.rows[table], record)
	return nil
}

// Rows returns a copy of all records inserted into a table. Test helper.
func (s *MemoryStore) Rows(table string) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]any, len(s.rows[table]))
	copy(out, s.rows[table])
	return out
}

func (s *MemoryStore) Ping(ctx context.Context) error    { return nil }
func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error                      { return nil }
