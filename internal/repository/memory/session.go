package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
)

// SessionStore keeps sessions in a bounded LRU whose entries expire after
// ttl. Sessions do not survive a restart and are not shared between
// replicas.
type SessionStore struct {
	cache *expirable.LRU[string, *session.Session]
	now   func() time.Time
}

// NewSessionStore creates a store holding at most size sessions
func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: expirable.NewLRU[string, *session.Session](size, nil, ttl),
		now:   time.Now,
	}
}

var _ session.Store = (*SessionStore)(nil)

func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	stored := *sess
	if sess.User != nil {
		stored.User = sess.User.Clone()
	}
	s.cache.Add(sess.ID, &stored)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, errors.NotFound("Session")
	}
	if sess.Expired(s.now()) {
		s.cache.Remove(id)
		return nil, errors.NotFound("Session")
	}

	out := *sess
	if sess.User != nil {
		out.User = sess.User.Clone()
	}
	return &out, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.cache.Remove(id)
	return nil
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	return s.cache.Len()
}
