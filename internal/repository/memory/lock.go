package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
)

type lockEntry struct {
	token    string
	deadline time.Time
}

// Locker implements session.Locker within one process. Each entry records
// its own deadline; the LRU TTL only bounds how long stale keys linger.
type Locker struct {
	mu   sync.Mutex
	held *expirable.LRU[string, lockEntry]
	now  func() time.Time
}

// NewLocker creates a locker tracking at most size keys. maxTTL should be
// at least the longest ttl passed to TryLock.
func NewLocker(size int, maxTTL time.Duration) *Locker {
	return NewLockerWithClock(size, maxTTL, time.Now)
}

// NewLockerWithClock is NewLocker with deadlines measured against now.
func NewLockerWithClock(size int, maxTTL time.Duration, now func() time.Time) *Locker {
	return &Locker{
		held: expirable.NewLRU[string, lockEntry](size, nil, maxTTL),
		now:  now,
	}
}

var _ session.Locker = (*Locker)(nil)

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.held.Get(key); ok && now.Before(e.deadline) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.held.Add(key, lockEntry{token: token, deadline: now.Add(ttl)})
	return token, true, nil
}

// Unlock is a no-op unless token still owns key
func (l *Locker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.held.Peek(key); ok && e.token == token {
		l.held.Remove(key)
	}
	return nil
}
