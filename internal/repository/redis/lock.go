package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if ARGV[1] still owns it
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements session.Locker with SET NX PX. Locks are shared by
// every replica pointing at the same Redis.
type Locker struct {
	client *goredis.Client
}

// NewLocker creates a Redis-backed locker
func NewLocker(client *goredis.Client) *Locker {
	return &Locker{client: client}
}

var _ session.Locker = (*Locker)(nil)

func lockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}

// TryLock acquires key for ttl if nobody holds it
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock releases key if token still owns it
func (l *Locker) Unlock(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey(key)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}
