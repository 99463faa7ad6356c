// Package llm provides LLM provider adapters.
package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	defaultEncoder *tiktoken.Tiktoken
	encoderOnce    sync.Once
	encoderErr     error
)

// getEncoder returns the shared tiktoken encoder, initializing it lazily.
func getEncoder() (*tiktoken.Tiktoken, error) {
	encoderOnce.Do(func() {
		defaultEncoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	return defaultEncoder, encoderErr
}

// EstimateTokens returns an estimated token count for the given text using
// the cl100k_base encoding. The pipeline uses it to enforce the model input
// limit before spending an API call on a prompt that would be rejected.
func EstimateTokens(text string) int {
	enc, err := getEncoder()
	if err != nil {
		// Character-based estimate if the encoding data is unavailable.
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
