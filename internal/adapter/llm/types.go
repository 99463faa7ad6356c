package llm

import "github.com/prbot/prreview/internal/domain"

// Usage captures token consumption and cost for one model call.
type Usage struct {
	TokensIn  int
	TokensOut int
	Cost      float64 // USD
}

// Request is the payload sent to a provider.
type Request struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int // output token cap, 0 means provider default
}

// Response is the standardized result from any provider: the parsed
// comment candidates plus usage metadata.
type Response struct {
	Model    string
	Comments []domain.ReviewComment
	Usage    Usage
}
