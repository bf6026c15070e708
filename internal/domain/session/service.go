package session

import (
	"context"

	"github.com/pratik-mahalle/arcgate/internal/domain/user"
)

// Service defines session lifecycle operations
type Service interface {
	// Login resolves the user for email and opens a session.
	// It returns the signed token to hand to the client.
	Login(ctx context.Context, email string) (token string, u *user.User, err error)

	// Current returns the session behind token, or an UNAUTHORIZED AppError
	Current(ctx context.Context, token string) (*Session, error)

	// Logout destroys the session behind token. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error
}
