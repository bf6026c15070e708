package services

import (
	"context"
	"strings"
	"time"

	"github.com/pratik-mahalle/arcgate/internal/domain/billing"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/pkg/metrics"
)

const checkoutLockPrefix = "checkout:"

// BillingService implements billing.Service
type BillingService struct {
	users   user.Repository
	gateway billing.Gateway
	locker  session.Locker
	lockTTL time.Duration
	logger  *logger.Logger
}

// NewBillingService creates a new billing service. locker serialises
// checkout creation per user for up to lockTTL.
func NewBillingService(users user.Repository, gateway billing.Gateway, locker session.Locker, lockTTL time.Duration, log *logger.Logger) *BillingService {
	return &BillingService{
		users:   users,
		gateway: gateway,
		locker:  locker,
		lockTTL: lockTTL,
		logger:  log,
	}
}

var _ billing.Service = (*BillingService)(nil)

// CreateCheckoutSession starts a subscription checkout for userID. A
// billing customer is created and stored on first use, before the
// checkout call, so a failed checkout never orphans a second customer.
// The user is re-read under the checkout lock; the first read only
// short-circuits the common rejections.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID, origin string) (string, error) {
	if userID == "" {
		return "", errors.Unauthorized("User not logged in")
	}

	if _, err := s.loadCheckoutUser(ctx, userID); err != nil {
		return "", err
	}

	lockKey := checkoutLockPrefix + userID
	token, acquired, err := s.locker.TryLock(ctx, lockKey, s.lockTTL)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to acquire checkout lock")
		return "", errors.Internal("Failed to start checkout", err)
	}
	if !acquired {
		metrics.RecordCheckout("conflict")
		return "", errors.Conflict("Checkout already in progress")
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), lockKey, token); err != nil {
			s.logger.WithError(err).Warnf("Failed to release checkout lock for user %s", userID)
		}
	}()

	u, err := s.loadCheckoutUser(ctx, userID)
	if err != nil {
		return "", err
	}

	log := s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
	})

	if !u.HasBillingCustomer() {
		customerID, err := s.gateway.CreateCustomer(ctx, u.Email)
		if err != nil {
			metrics.RecordCheckout("failed")
			log.ErrorWithErr(err, "Failed to create billing customer")
			return "", errors.GatewayError("Payment gateway error", err)
		}

		u.BillingCustomerID = &customerID
		if err := s.users.Upsert(ctx, u); err != nil {
			metrics.RecordCheckout("failed")
			log.ErrorWithErr(err, "Failed to store billing customer")
			return "", err
		}
		log.With("customer_id", customerID).Info("Billing customer created")
	}

	base := strings.TrimRight(origin, "/")
	sessionID, err := s.gateway.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		CustomerID: *u.BillingCustomerID,
		SuccessURL: base + "/?success=true",
		CancelURL:  base + "/?canceled=true",
	})
	if err != nil {
		metrics.RecordCheckout("failed")
		log.ErrorWithErr(err, "Failed to create checkout session")
		return "", errors.GatewayError("Payment gateway error", err)
	}

	metrics.RecordCheckout("created")
	log.With("checkout_session_id", sessionID).Info("Checkout session created")

	return sessionID, nil
}

// loadCheckoutUser fetches userID and rejects users who may not check out
func (s *BillingService) loadCheckoutUser(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("User not logged in")
		}
		return nil, err
	}
	if u.IsPremium {
		metrics.RecordCheckout("already_subscribed")
		return nil, errors.AlreadySubscribed()
	}
	return u, nil
}

// HandleWebhook verifies a webhook delivery and applies it. Events that
// match no user are logged and acknowledged; only store failures are
// returned, so the processor redelivers.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		metrics.RecordWebhookEvent("unknown", "invalid_signature")
		s.logger.WithError(err).Warn("Rejected webhook delivery")
		return errors.InvalidSignature(err)
	}

	log := s.logger.WithFields(map[string]interface{}{
		"event_id":        ev.ID,
		"event_type":      ev.Type,
		"customer_id":     ev.CustomerID,
		"subscription_id": ev.SubscriptionID,
	})

	var outcome string
	switch ev.Type {
	case billing.EventCheckoutCompleted:
		outcome, err = s.applyCheckoutCompleted(ctx, ev, log)
	case billing.EventSubscriptionDeleted:
		outcome, err = s.applySubscriptionDeleted(ctx, ev, log)
	default:
		log.Debug("Ignoring webhook event")
		outcome = "ignored"
	}
	if err != nil {
		metrics.RecordWebhookEvent(ev.Type, "failed")
		log.ErrorWithErr(err, "Failed to apply webhook event")
		return err
	}

	metrics.RecordWebhookEvent(ev.Type, outcome)
	return nil
}

func (s *BillingService) applyCheckoutCompleted(ctx context.Context, ev *billing.Event, log *logger.Logger) (string, error) {
	if ev.CustomerID == "" {
		log.Warn("Checkout completed without a customer")
		return "unmatched", nil
	}

	u, err := s.users.FindByBillingCustomerID(ctx, ev.CustomerID)
	if errors.IsNotFound(err) {
		log.Warn("Checkout completed for unknown customer")
		return "unmatched", nil
	}
	if err != nil {
		return "", err
	}

	if u.IsPremium && u.SubscriptionID() == ev.SubscriptionID {
		log.With("user_id", u.ID).Info("Checkout already applied")
		return "duplicate", nil
	}

	if ev.SubscriptionID == "" {
		log.With("user_id", u.ID).Warn("Checkout completed without a subscription")
		u.IsPremium = true
	} else {
		u.GrantPremium(ev.SubscriptionID)
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return "", err
	}

	log.With("user_id", u.ID).Info("Premium granted")
	return "applied", nil
}

func (s *BillingService) applySubscriptionDeleted(ctx context.Context, ev *billing.Event, log *logger.Logger) (string, error) {
	if ev.SubscriptionID == "" {
		log.Warn("Subscription deleted without an id")
		return "unmatched", nil
	}

	u, err := s.users.FindByBillingSubscriptionID(ctx, ev.SubscriptionID)
	if errors.IsNotFound(err) {
		log.Warn("Subscription deleted for unknown subscription")
		return "unmatched", nil
	}
	if err != nil {
		return "", err
	}

	u.RevokePremium()
	if err := s.users.Upsert(ctx, u); err != nil {
		return "", err
	}

	log.With("user_id", u.ID).Info("Premium revoked")
	return "applied", nil
}
