package billing

// Webhook event types acted upon. Everything else is acknowledged and ignored.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Price describes the single recurring product on sale
type Price struct {
	Currency    string
	UnitAmount  int64
	ProductName string
	Interval    string
}

// CheckoutRequest holds the inputs for a hosted checkout session
type CheckoutRequest struct {
	CustomerID string
	SuccessURL string
	CancelURL  string
}

// Event is a verified webhook notification reduced to the fields we use
type Event struct {
	ID             string
	Type           string
	CustomerID     string
	SubscriptionID string
}
