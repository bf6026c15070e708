package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pratik-mahalle/arcgate/internal/config"
	"github.com/pratik-mahalle/arcgate/internal/domain/billing"
	"github.com/stripe/stripe-go/v84"
	checkoutsession "github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/customer"
	"github.com/stripe/stripe-go/v84/webhook"
)

// StripeGateway implements billing.Gateway. It holds its own key and
// backend, so nothing touches the package-level stripe.Key.
type StripeGateway struct {
	customers     *customer.Client
	sessions      *checkoutsession.Client
	webhookSecret string
	price         billing.Price
}

// NewStripeGateway creates a gateway from cfg. Network retries are
// disabled; Stripe redelivers webhooks and clients can retry checkout.
func NewStripeGateway(cfg config.BillingConfig) *StripeGateway {
	backendCfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.StripeAPIURL != "" {
		backendCfg.URL = stripe.String(cfg.StripeAPIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	return &StripeGateway{
		customers:     &customer.Client{B: backend, Key: cfg.StripeSecretKey},
		sessions:      &checkoutsession.Client{B: backend, Key: cfg.StripeSecretKey},
		webhookSecret: cfg.StripeWebhookSecret,
		price: billing.Price{
			Currency:    cfg.Currency,
			UnitAmount:  cfg.UnitAmount,
			ProductName: cfg.ProductName,
			Interval:    cfg.Interval,
		},
	}
}

var _ billing.Gateway = (*StripeGateway)(nil)

// CreateCustomer creates a Stripe customer for email
func (g *StripeGateway) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx

	c, err := g.customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return c.ID, nil
}

// CreateCheckoutSession creates a card subscription checkout for the
// configured recurring price
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:           stripe.String(req.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.price.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(g.price.ProductName),
					},
					UnitAmount: stripe.Int64(g.price.UnitAmount),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(g.price.Interval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create checkout session: %w", err)
	}
	return s.ID, nil
}

// ParseWebhook verifies the Stripe-Signature header and extracts the
// customer and subscription references from the event object
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*billing.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, err
	}

	ev := &billing.Event{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil {
		return ev, nil
	}

	switch ev.Type {
	case billing.EventCheckoutCompleted:
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		if cs.Customer != nil {
			ev.CustomerID = cs.Customer.ID
		}
		if cs.Subscription != nil {
			ev.SubscriptionID = cs.Subscription.ID
		}
	case billing.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		ev.SubscriptionID = sub.ID
		if sub.Customer != nil {
			ev.CustomerID = sub.Customer.ID
		}
	}

	return ev, nil
}
