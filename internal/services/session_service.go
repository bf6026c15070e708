package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/arcgate/internal/auth"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
)

// SessionService implements session.Service on a session.Store. The token
// handed to clients is a signed JWT whose ID is the store key.
type SessionService struct {
	users  user.Service
	store  session.Store
	secret string
	ttl    time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(users user.Service, store session.Store, secret string, ttl time.Duration, log *logger.Logger) *SessionService {
	return &SessionService{
		users:  users,
		store:  store,
		secret: secret,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

var _ session.Service = (*SessionService)(nil)

// Login resolves the user and opens a new session holding its snapshot
func (s *SessionService) Login(ctx context.Context, email string) (string, *user.User, error) {
	u, _, err := s.users.Login(ctx, email)
	if err != nil {
		return "", nil, err
	}

	now := s.now().UTC()
	sess := &session.Session{
		ID:        uuid.NewString(),
		User:      u.Clone(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.ErrorWithErr(err, "Failed to save session")
		return "", nil, errors.Internal("Failed to create session", err)
	}

	token, err := auth.MintSessionToken(sess.ID, s.secret, now, sess.ExpiresAt)
	if err != nil {
		_ = s.store.Delete(ctx, sess.ID)
		return "", nil, errors.Internal("Failed to create session", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    u.ID,
		"session_id": sess.ID,
	}).Info("Session opened")

	return token, u, nil
}

// Current returns the live session behind token
func (s *SessionService) Current(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, errors.Unauthorized("Unauthorized")
	}

	claims, err := auth.ParseSessionToken(token, s.secret)
	if err != nil {
		s.logger.Debugf("Rejected session token: %v", err)
		return nil, errors.Unauthorized("Unauthorized")
	}

	sess, err := s.store.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Unauthorized")
		}
		s.logger.ErrorWithErr(err, "Failed to load session")
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, errors.Unauthorized("Unauthorized")
	}

	return sess, nil
}

// Logout deletes the session behind token. Invalid or unknown tokens are
// a no-op.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := auth.ParseSessionToken(token, s.secret)
	if err != nil {
		return nil
	}

	if err := s.store.Delete(ctx, claims.SessionID()); err != nil {
		s.logger.ErrorWithErr(err, "Failed to delete session")
		return errors.Internal("Failed to end session", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"session_id": claims.SessionID(),
	}).Info("Session closed")
	return nil
}
