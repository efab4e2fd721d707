package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/odiadev/odia-backend/pkg/models"
)

// Schema is the SQL DDL for the backend's append-only tables. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id          BIGSERIAL PRIMARY KEY,
    session_id  TEXT NOT NULL,
    platform    TEXT NOT NULL,
    message     TEXT NOT NULL,
    response    TEXT NOT NULL,
    agent       TEXT NOT NULL,
    cost        INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations(session_id);
CREATE INDEX IF NOT EXISTS idx_conversations_agent ON conversations(agent);

CREATE TABLE IF NOT EXISTS voice_cache (
    id           BIGSERIAL PRIMARY KEY,
    text_hash    TEXT NOT NULL,
    agent_type   TEXT NOT NULL,
    storage      TEXT NOT NULL DEFAULT 'memory',
    access_count INTEGER NOT NULL DEFAULT 1,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_voice_cache_hash ON voice_cache(text_hash);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by PostgreSQL.
type PostgresStore struct {
	db      DB
	closeFn func()
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a [PostgresStore] over the given connection or
// pool. closeFn, if non-nil, is invoked by Close (pass pool.Close). The
// caller is responsible for calling Migrate before issuing inserts.
func NewPostgresStore(db DB, closeFn func()) *PostgresStore {
	return &PostgresStore{db: db, closeFn: closeFn}
}

// Migrate executes the [Schema] DDL, creating the tables and indexes if
// they do not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, table string, record any) error {
	switch table {
	case TableConversations:
		rec, ok := record.(models.ConversationRecord)
		if !ok {
			return &ErrUnknownTable{Table: table, Record: record}
		}
		_, err := s.db.Exec(ctx,
			`INSERT INTO conversations (session_id, platform, message, response, agent, cost)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.SessionID, string(rec.Platform), rec.Message, rec.Response, rec.Agent, rec.Cost)
		if err != nil {
			return fmt.Errorf("store: insert conversation: %w", err)
		}
		return nil

	case TableVoiceCache:
		rec, ok := record.(models.VoiceCacheMeta)
		if !ok {
			return &ErrUnknownTable{Table: table, Record: record}
		}
		_, err := s.db.Exec(ctx,
			`INSERT INTO voice_cache (text_hash, agent_type, storage, access_count)
			 VALUES ($1, $2, $3, $4)`,
			rec.TextHash, rec.AgentType, rec.Storage, rec.AccessCount)
		if err != nil {
			return fmt.Errorf("store: insert voice cache meta: %w", err)
		}
		return nil

	default:
		return &ErrUnknownTable{Table: table, Record: record}
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}
