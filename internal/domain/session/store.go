package session

import (
	"context"
	"time"
)

// Store persists sessions by id. Get returns a NOT_FOUND AppError for
// unknown or expired ids.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Locker hands out short-lived named locks. TryLock returns ok=false without
// blocking when the key is already held. The returned token identifies the
// holder; Unlock releases key only while that token still owns it, so a
// holder whose ttl lapsed cannot free a lock someone else took since.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}
