// Package redis implements the conversation store over Redis lists, one list
// per session. Suited for deployments where history is hot, short-lived
// session state.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lawding/lawgraph"
)

// ConversationStore implements lawgraph.ConversationStore using Redis
type ConversationStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	cap    int64
}

// Options configuration for Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "lawgraph:"
	TTL      time.Duration // Session expiration, refreshed on append, default 0 (no expiration)
	MaxTurns int           // Turns retained per session, default 200
}

// NewConversationStore creates a new Redis conversation store
func NewConversationStore(opts Options) *ConversationStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewConversationStoreWithClient(client, opts)
}

// NewConversationStoreWithClient wraps an existing Redis client.
// Useful for testing with miniredis.
func NewConversationStoreWithClient(client *redis.Client, opts Options) *ConversationStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "lawgraph:"
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 200
	}
	return &ConversationStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
		cap:    int64(maxTurns),
	}
}

func (s *ConversationStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("%ssession:%s:turns", s.prefix, sessionID)
}

// Append adds a turn to the session, trimming to the retention cap.
func (s *ConversationStore) Append(ctx context.Context, sessionID string, msg lawgraph.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	key := s.sessionKey(sessionID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -s.cap, -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append turn to redis: %w", err)
	}
	return nil
}

// History returns up to limit most recent turns in chronological order.
func (s *ConversationStore) History(ctx context.Context, sessionID string, limit int) ([]lawgraph.Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	key := s.sessionKey(sessionID)
	entries, err := s.client.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load history from redis: %w", err)
	}

	messages := make([]lawgraph.Message, 0, len(entries))
	for _, entry := range entries {
		var msg lawgraph.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Close closes the underlying Redis client
func (s *ConversationStore) Close() error {
	return s.client.Close()
}
