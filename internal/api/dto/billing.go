package dto

// CreatePaymentResponse carries the hosted checkout session id
type CreatePaymentResponse struct {
	ID string `json:"id"`
}

// WebhookResponse acknowledges a verified webhook delivery
type WebhookResponse struct {
	Received bool `json:"received"`
}
