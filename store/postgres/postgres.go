// Package postgres implements a durable conversation store over PostgreSQL,
// for deployments that archive counseling sessions beyond a cache lifetime.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lawding/lawgraph"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// ConversationStore implements lawgraph.ConversationStore using PostgreSQL
type ConversationStore struct {
	pool      DBPool
	tableName string
}

// Options configuration for Postgres connection
type Options struct {
	ConnString string
	TableName  string // Default "conversation_turns"
}

// NewConversationStore creates a new Postgres conversation store
func NewConversationStore(ctx context.Context, opts Options) (*ConversationStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewConversationStoreWithPool(pool, opts.TableName), nil
}

// NewConversationStoreWithPool creates a store with an existing pool.
// Useful for testing with mocks.
func NewConversationStoreWithPool(pool DBPool, tableName string) *ConversationStore {
	if tableName == "" {
		tableName = "conversation_turns"
	}
	return &ConversationStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *ConversationStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_%s_session_id ON %s (session_id, created_at);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *ConversationStore) Close() {
	s.pool.Close()
}

// Append adds a turn to the session
func (s *ConversationStore) Append(ctx context.Context, sessionID string, msg lawgraph.Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, session_id, role, content)
		VALUES ($1, $2, $3, $4)
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query, uuid.NewString(), sessionID, msg.Role, msg.Content)
	if err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// History returns up to limit most recent turns in chronological order
func (s *ConversationStore) History(ctx context.Context, sessionID string, limit int) ([]lawgraph.Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	// Newest-first with a limit, then reversed to chronological order.
	query := fmt.Sprintf(`
		SELECT role, content
		FROM %s
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var messages []lawgraph.Message
	for rows.Next() {
		var msg lawgraph.Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
