package session

import (
	"time"

	"github.com/pratik-mahalle/arcgate/internal/domain/user"
)

// Session is the server-side record behind a session cookie. User is a
// snapshot taken at login and is not refreshed afterwards.
type Session struct {
	ID        string     `json:"id"`
	User      *user.User `json:"user"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// UserID returns the id of the snapshotted user
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}
