package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// SessionStore keeps sessions as Redis hashes that expire with the session
type SessionStore struct {
	client *goredis.Client
}

// NewSessionStore creates a Redis-backed session store
func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

var _ session.Store = (*SessionStore)(nil)

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Save stores s with a TTL matching its expiry
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session expiration time is in the past")
	}

	snapshot, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	key := sessionKey(sess.ID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"user":       snapshot,
		"created_at": sess.CreatedAt.Unix(),
		"expires_at": sess.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get loads a session by id
func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, errors.NotFound("Session")
	}

	var u user.User
	if err := json.Unmarshal([]byte(fields["user"]), &u); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid session created_at: %w", err)
	}
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid session expires_at: %w", err)
	}

	return &session.Session{
		ID:        id,
		User:      &u,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
	}, nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
