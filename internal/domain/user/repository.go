package user

import "context"

// Repository defines the interface for user data access.
// Lookups return a NOT_FOUND AppError when no record matches.
type Repository interface {
	// FindByEmail retrieves a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByBillingCustomerID retrieves the user owning a billing customer
	FindByBillingCustomerID(ctx context.Context, customerID string) (*User, error)

	// FindByBillingSubscriptionID retrieves the user owning a subscription
	FindByBillingSubscriptionID(ctx context.Context, subscriptionID string) (*User, error)

	// Create inserts a non-premium user with no billing references.
	// Fails with DUPLICATE_KEY if the email is taken.
	Create(ctx context.Context, email string) (*User, error)

	// Upsert persists the mutable fields of an existing user.
	// Fails with NOT_FOUND if the user does not exist.
	Upsert(ctx context.Context, u *User) error

	// Ping checks the backing store is reachable
	Ping(ctx context.Context) error
}
