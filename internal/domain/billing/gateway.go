package billing

import "context"

// Gateway is the payment processor adapter
type Gateway interface {
	// CreateCustomer creates a billing customer for email and returns its id
	CreateCustomer(ctx context.Context, email string) (string, error)

	// CreateCheckoutSession creates a recurring-billing checkout session
	// and returns its id
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)

	// ParseWebhook verifies the signature header and decodes the event
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

// Service defines payment flow operations
type Service interface {
	// CreateCheckoutSession starts a subscription checkout for userID and
	// returns the checkout session id. origin is the scheme://host that
	// checkout redirects back to.
	CreateCheckoutSession(ctx context.Context, userID, origin string) (string, error)

	// HandleWebhook verifies and applies a webhook delivery
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}
