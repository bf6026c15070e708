package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	mr, client := setupMiniRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	cus := "cus_1"
	now := time.Now().UTC().Truncate(time.Second)
	sess := &session.Session{
		ID:        "sess-1",
		User:      &user.User{ID: "u-1", Email: "a@x.com", BillingCustomerID: &cus},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, mr.Exists("session:sess-1"))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("session:sess-1").Seconds(), 2)

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.User.ID)
	assert.Equal(t, "a@x.com", got.User.Email)
	require.NotNil(t, got.User.BillingCustomerID)
	assert.Equal(t, "cus_1", *got.User.BillingCustomerID)
	assert.True(t, got.ExpiresAt.Equal(sess.ExpiresAt))

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Get(ctx, "sess-1")
	assert.True(t, errors.IsNotFound(err))
}

func TestSessionStore_Expiry(t *testing.T) {
	mr, client := setupMiniRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Save(ctx, &session.Session{
		ID:        "short",
		User:      &user.User{ID: "u-1"},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "short")
	assert.True(t, errors.IsNotFound(err))
}

func TestSessionStore_RejectsExpiredSession(t *testing.T) {
	_, client := setupMiniRedis(t)
	store := NewSessionStore(client)

	err := store.Save(context.Background(), &session.Session{
		ID:        "old",
		User:      &user.User{ID: "u-1"},
		ExpiresAt: time.Now().Add(-time.Second),
	})
	assert.Error(t, err)
}

func TestLocker(t *testing.T) {
	mr, client := setupMiniRedis(t)
	ctx := context.Background()
	a := NewLocker(client)
	b := NewLocker(client)

	token, ok, err := a.TryLock(ctx, "checkout:u-1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = b.TryLock(ctx, "checkout:u-1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	// a foreign token is a no-op
	require.NoError(t, b.Unlock(ctx, "checkout:u-1", "not-the-owner"))
	assert.True(t, mr.Exists("lock:checkout:u-1"))

	require.NoError(t, a.Unlock(ctx, "checkout:u-1", token))
	assert.False(t, mr.Exists("lock:checkout:u-1"))

	_, ok, err = b.TryLock(ctx, "checkout:u-1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_ExpiredLockIsReacquirable(t *testing.T) {
	mr, client := setupMiniRedis(t)
	ctx := context.Background()
	a := NewLocker(client)
	b := NewLocker(client)

	stale, ok, err := a.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = b.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// a's stale unlock must not release b's lock
	require.NoError(t, a.Unlock(ctx, "k", stale))
	assert.True(t, mr.Exists("lock:k"))
}

func TestLocker_SameProcessExpiredHolder(t *testing.T) {
	mr, client := setupMiniRedis(t)
	ctx := context.Background()
	l := NewLocker(client)

	first, ok, err := l.TryLock(ctx, "checkout:u-1", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	second, ok, err := l.TryLock(ctx, "checkout:u-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, l.Unlock(ctx, "checkout:u-1", first))
	assert.True(t, mr.Exists("lock:checkout:u-1"))

	_, ok, err = l.TryLock(ctx, "checkout:u-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder still owns the lock")

	require.NoError(t, l.Unlock(ctx, "checkout:u-1", second))
	assert.False(t, mr.Exists("lock:checkout:u-1"))
}
