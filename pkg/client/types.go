package client

import "time"

// User represents a user in the system
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	IsPremium             bool      `json:"isPremium"`
	BillingCustomerID     *string   `json:"billingCustomerId"`
	BillingSubscriptionID *string   `json:"billingSubscriptionId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Tier returns the name of the highest model tier the user can call
func (u *User) Tier() string {
	if u.IsPremium {
		return "arc-plus"
	}
	return "arc-core"
}

// LoginResponse represents a login response
type LoginResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// CheckoutSession identifies a hosted checkout page
type CheckoutSession struct {
	ID string `json:"id"`
}

// Completion mirrors the upstream chat completion payload
type Completion struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   CompletionUsage    `json:"usage"`
}

// Text returns the content of the first choice
func (c *Completion) Text() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Message.Content
}

// CompletionChoice is one generated answer
type CompletionChoice struct {
	Index        int               `json:"index"`
	Message      CompletionMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// CompletionMessage is a chat message
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionUsage reports token counts
type CompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
