package completion

import (
	"context"

	"github.com/pratik-mahalle/arcgate/internal/domain/session"
)

// Client calls the language model API
type Client interface {
	Complete(ctx context.Context, model, prompt string, maxTokens int) (*Response, error)
}

// Service proxies prompts at the two tiers
type Service interface {
	// CompleteBasic requires a session only
	CompleteBasic(ctx context.Context, s *session.Session, prompt string) (*Response, error)

	// CompletePremium requires a session whose user is currently premium
	CompletePremium(ctx context.Context, s *session.Session, prompt string) (*Response, error)
}
