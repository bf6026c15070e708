package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// Login returns the user for email, creating it on first sight.
	// created reports whether this call inserted the record.
	Login(ctx context.Context, email string) (u *User, created bool, err error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)
}
