package dto

// CompletionRequest is the body of the arc-core and arc-plus routes. The
// prompt is forwarded as-is.
type CompletionRequest struct {
	Prompt string `json:"prompt"`
}
