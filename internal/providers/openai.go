package providers

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/arcgate/internal/config"
	"github.com/pratik-mahalle/arcgate/internal/domain/completion"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements completion.Client on the chat completions API
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client from cfg. BaseURL overrides the API
// endpoint, e.g. for a proxy or tests.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(oc)}
}

var _ completion.Client = (*OpenAIClient)(nil)

// Complete sends prompt as a single user message
func (c *OpenAIClient) Complete(ctx context.Context, model, prompt string, maxTokens int) (*completion.Response, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion (%s): %w", model, err)
	}

	out := &completion.Response{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: make([]completion.Choice, 0, len(resp.Choices)),
		Usage: completion.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, ch := range resp.Choices {
		out.Choices = append(out.Choices, completion.Choice{
			Index: ch.Index,
			Message: completion.Message{
				Role:    ch.Message.Role,
				Content: ch.Message.Content,
			},
			FinishReason: string(ch.FinishReason),
		})
	}
	return out, nil
}
