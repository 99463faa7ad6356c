package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prbot/prreview/internal/adapter/llm"
	llmhttp "github.com/prbot/prreview/internal/adapter/llm/http"
	"github.com/prbot/prreview/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultTimeout = 120 * time.Second
)

// reaskInstruction is appended to the conversation when the model returns
// output that does not satisfy the review schema. The model gets exactly
// one chance to correct itself.
const reaskInstruction = "Your previous response did not match the required JSON schema. " +
	"Respond again with ONLY a JSON object of the form " +
	`{"comments":[{"path":string,"line":integer,"body":string,"side":"LEFT"|"RIGHT"}]}. ` +
	"Use an empty comments array if there is nothing to report."

// isReasoningModel reports whether the model is an o-series reasoning model.
// These models reject the temperature parameter and expect
// max_completion_tokens instead of max_tokens.
func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

// HTTPClient is an HTTP client for the OpenAI Chat Completions API.
type HTTPClient struct {
	apiKey    string
	model     string
	baseURL   string
	client    *http.Client
	retryConf llmhttp.RetryConfig
	logger    llmhttp.Logger
	pricing   *llmhttp.DefaultPricing
}

// NewHTTPClient creates a new OpenAI HTTP client for the given model.
func NewHTTPClient(apiKey, model string) *HTTPClient {
	return &HTTPClient{
		apiKey:    apiKey,
		model:     model,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: defaultTimeout},
		retryConf: llmhttp.DefaultRetryConfig(),
		logger:    llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true),
		pricing:   llmhttp.NewDefaultPricing(),
	}
}

// SetBaseURL sets a custom base URL (for testing or proxies).
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout sets the HTTP timeout.
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetRetryConfig overrides the default retry behavior.
func (c *HTTPClient) SetRetryConfig(conf llmhttp.RetryConfig) {
	c.retryConf = conf
}

// SetLogger overrides the default logger.
func (c *HTTPClient) SetLogger(logger llmhttp.Logger) {
	c.logger = logger
}

// apiResponse is the parsed payload of a single completion call.
type apiResponse struct {
	Text      string
	TokensIn  int
	TokensOut int
	Model     string
}

// call makes one Chat Completions request with transport-level retries.
// Messages carry the full conversation so the re-ask path can include the
// model's previous, rejected answer.
func (c *HTTPClient) call(ctx context.Context, messages []Message, maxTokens int) (*apiResponse, error) {
	reqBody := ChatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: reviewSchema()},
	}

	if isReasoningModel(c.model) {
		reqBody.MaxCompletionTokens = maxTokens
	} else {
		zero := 0.0
		reqBody.Temperature = &zero
		reqBody.MaxTokens = maxTokens
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	start := time.Now()
	promptChars := 0
	for _, m := range messages {
		promptChars += len(m.Content)
	}
	c.logger.LogRequest(ctx, llmhttp.RequestLog{
		Provider:    "openai",
		Model:       c.model,
		Timestamp:   start,
		PromptChars: promptChars,
		APIKey:      c.apiKey,
	})

	var response *apiResponse
	operation := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return llmhttp.NewTimeoutError("openai", err.Error())
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return c.handleErrorResponse(resp.StatusCode, body)
		}

		var chatResp ChatCompletionResponse
		if err := json.Unmarshal(body, &chatResp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		if len(chatResp.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}

		response = &apiResponse{
			Text:      chatResp.Choices[0].Message.Content,
			TokensIn:  chatResp.Usage.PromptTokens,
			TokensOut: chatResp.Usage.CompletionTokens,
			Model:     chatResp.Model,
		}
		return nil
	}

	if err := llmhttp.RetryWithBackoff(ctx, operation, c.retryConf); err != nil {
		errLog := llmhttp.ErrorLog{
			Provider:  "openai",
			Model:     c.model,
			Timestamp: time.Now(),
			Duration:  time.Since(start),
			Error:     err,
		}
		var apiErr *llmhttp.Error
		if errors.As(err, &apiErr) {
			errLog.StatusCode = apiErr.StatusCode
			errLog.Retryable = apiErr.Retryable
		}
		c.logger.LogError(ctx, errLog)
		return nil, err
	}

	c.logger.LogResponse(ctx, llmhttp.ResponseLog{
		Provider:  "openai",
		Model:     response.Model,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		TokensIn:  response.TokensIn,
		TokensOut: response.TokensOut,
		Cost:      c.pricing.GetCost(c.model, response.TokensIn, response.TokensOut),
	})

	return response, nil
}

// handleErrorResponse converts HTTP error responses to typed errors.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	} else if len(body) > 0 && len(body) < 200 {
		message = string(body)
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llmhttp.NewAuthenticationError("openai", message)
	case http.StatusNotFound:
		return llmhttp.NewNotFoundError("openai", message)
	case http.StatusTooManyRequests:
		return llmhttp.NewRateLimitError("openai", message)
	case http.StatusBadRequest:
		return llmhttp.NewInvalidRequestError("openai", message)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return llmhttp.NewServiceUnavailableError("openai", message)
	default:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   "openai",
		}
	}
}

// CreateReview sends the review prompt and returns the parsed comments.
// If the model's output fails schema validation, the client re-asks once
// with a corrective instruction before giving up.
func (c *HTTPClient) CreateReview(ctx context.Context, req llm.Request) (llm.Response, error) {
	const op = "openai.CreateReview"

	messages := []Message{
		{Role: "system", Content: req.SystemPrompt},
		{Role: "user", Content: req.Prompt},
	}

	apiResp, err := c.call(ctx, messages, req.MaxTokens)
	if err != nil {
		return llm.Response{}, err
	}

	comments, parseErr := parseComments(apiResp.Text)
	tokensIn := apiResp.TokensIn
	tokensOut := apiResp.TokensOut
	model := apiResp.Model

	if parseErr != nil {
		messages = append(messages,
			Message{Role: "assistant", Content: apiResp.Text},
			Message{Role: "user", Content: reaskInstruction},
		)

		retryResp, err := c.call(ctx, messages, req.MaxTokens)
		if err != nil {
			return llm.Response{}, err
		}
		tokensIn += retryResp.TokensIn
		tokensOut += retryResp.TokensOut
		model = retryResp.Model

		comments, parseErr = parseComments(retryResp.Text)
		if parseErr != nil {
			return llm.Response{}, domain.NewError(domain.KindMalformedResponse, op,
				fmt.Errorf("%w: %s", parseErr, llmhttp.TruncateForLogging(retryResp.Text)))
		}
	}

	return llm.Response{
		Model:    model,
		Comments: comments,
		Usage: llm.Usage{
			TokensIn:  tokensIn,
			TokensOut: tokensOut,
			Cost:      c.pricing.GetCost(c.model, tokensIn, tokensOut),
		},
	}, nil
}
