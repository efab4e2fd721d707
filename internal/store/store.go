// Package store provides the durable-store boundary for the ODIA backend.
//
// The backend only ever appends rows: conversation audit records and voice
// cache metadata. Handler code depends on the Store interface, making it
// easy to swap between in-memory (tests, local dev) and PostgreSQL
// (production) implementations.
package store

import (
	"context"
	"fmt"
)

// Table names known to the store.
const (
	TableConversations = "conversations"
	TableVoiceCache    = "voice_cache"
)

// Store is the append-only persistence interface.
type Store interface {
	// Insert appends one record to the named table. The record's concrete
	// type must match the table (see pkg/models).
	Insert(ctx context.Context, table string, record any) error

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Migrate ensures the schema exists.
	Migrate(ctx context.Context) error

	// Close releases all resources held by the store.
	Close() error
}

// ErrUnknownTable is returned for inserts into a table the store does not
// manage, or with a record type that does not match the table.
type ErrUnknownTable struct {
	Table  string
	Record any
}

func (e *ErrUnknownTable) Error() string {
	return fmt.Sprintf("store: no insert mapping for table %q (record %T)", e.Table, e.Record)
}
