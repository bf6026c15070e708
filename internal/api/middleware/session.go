package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/pratik-mahalle/arcgate/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// SessionKey is the context key for the loaded *session.Session
	SessionKey ContextKey = "session"
	// SessionTokenKey is the context key for the raw session token
	SessionTokenKey ContextKey = "sessionToken"
)

// TokenFromRequest returns the session token from the session cookie, or
// from an Authorization bearer header for non-browser clients
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionLoader resolves the session for every request that carries a
// token. Requests without a valid session pass through untouched; gated
// routes reject them with RequireSession.
func SessionLoader(sessions session.Service, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionTokenKey, token)
			if sess, err := sessions.Current(ctx, token); err == nil {
				ctx = context.WithValue(ctx, SessionKey, sess)
				AddLogField(w, "user_id", sess.UserID())
			} else if !errors.HasCode(err, errors.ErrCodeUnauthorized) {
				utils.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests without a loaded session with a 403
// carrying message
func RequireSession(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetSession(r); !ok {
				utils.WriteError(w, errors.Unauthorized(message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSession extracts the session loaded by SessionLoader
func GetSession(r *http.Request) (*session.Session, bool) {
	sess, ok := r.Context().Value(SessionKey).(*session.Session)
	return sess, ok && sess != nil
}

// GetSessionToken extracts the raw token seen by SessionLoader
func GetSessionToken(r *http.Request) string {
	token, _ := r.Context().Value(SessionTokenKey).(string)
	return token
}
