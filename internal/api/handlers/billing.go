package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/arcgate/internal/api/dto"
	"github.com/pratik-mahalle/arcgate/internal/api/middleware"
	"github.com/pratik-mahalle/arcgate/internal/domain/billing"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/pkg/utils"
)

// MaxWebhookBodyBytes caps webhook payloads
const MaxWebhookBodyBytes = 64 << 10

// SignatureHeader carries the webhook signature
const SignatureHeader = "Stripe-Signature"

// BillingHandler handles checkout creation and payment webhooks
type BillingHandler struct {
	billing   billing.Service
	publicURL string
	logger    *logger.Logger
}

// NewBillingHandler creates a new billing handler. publicURL is the
// redirect origin used when a request carries no usable origin.
func NewBillingHandler(billingService billing.Service, publicURL string, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		billing:   billingService,
		publicURL: publicURL,
		logger:    log,
	}
}

// CreatePayment starts a subscription checkout
// @Summary Create checkout session
// @Description Create a hosted checkout session for the weekly arc-plus subscription
// @Tags Billing
// @Produce json
// @Success 200 {object} dto.CreatePaymentResponse
// @Failure 400 {string} string "Already subscribed"
// @Failure 403 {string} string "User not logged in"
// @Failure 409 {string} string "Checkout already in progress"
// @Failure 500 {string} string "Payment gateway error"
// @Router /create-payment [post]
func (h *BillingHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("User not logged in"))
		return
	}

	id, err := h.billing.CreateCheckoutSession(r.Context(), sess.UserID(), h.origin(r))
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.CreatePaymentResponse{ID: id})
}

// Webhook receives payment processor events
// @Summary Payment webhook
// @Description Verify and apply a subscription lifecycle event
// @Tags Billing
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {string} string "Webhook error"
// @Router /stripe-webhook [post]
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxWebhookBodyBytes))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read webhook body")
		utils.WriteError(w, errors.InvalidSignature(err))
		return
	}

	if err := h.billing.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader)); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.WebhookResponse{Received: true})
}

// origin picks the scheme://host checkout redirects back to
func (h *BillingHandler) origin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" && o != "null" {
		return o
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" && r.Host != "" {
		return strings.ToLower(proto) + "://" + r.Host
	}
	return h.publicURL
}
