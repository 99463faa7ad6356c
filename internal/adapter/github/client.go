package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	llmhttp "github.com/prbot/prreview/internal/adapter/llm/http"
	"github.com/prbot/prreview/internal/domain"
)

const (
	defaultBaseURL        = "https://api.github.com"
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = 2 * time.Second

	// perPage is the page size for list endpoints.
	perPage = 100

	// maxPaginationPages bounds Link-header pagination so a broken or
	// hostile server cannot keep the client looping.
	maxPaginationPages = 30
)

// Client is an HTTP client for the GitHub Pull Request APIs.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	retryConf  llmhttp.RetryConfig
}

// NewClient creates a new GitHub API client with the given token.
// The token should be a GitHub personal access token or GITHUB_TOKEN from Actions.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf: llmhttp.RetryConfig{
			MaxRetries:     defaultMaxRetries,
			InitialBackoff: defaultInitialBackoff,
			MaxBackoff:     32 * time.Second,
			Multiplier:     2.0,
		},
	}
}

// SetBaseURL sets a custom base URL (for testing or GitHub Enterprise).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout sets the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetMaxRetries sets the maximum number of retry attempts.
func (c *Client) SetMaxRetries(maxRetries int) {
	c.retryConf.MaxRetries = maxRetries
}

// SetInitialBackoff sets the initial backoff duration for retries.
func (c *Client) SetInitialBackoff(backoff time.Duration) {
	c.retryConf.InitialBackoff = backoff
}

// do executes one authenticated request with retry and returns the
// response body and headers. Error responses are mapped to typed
// llmhttp errors so the shared retry logic can classify them.
func (c *Client) do(ctx context.Context, method, url string, reqBody []byte) ([]byte, http.Header, error) {
	var body []byte
	var header http.Header

	err := llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(reqBody))
		if reqErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Provider:  providerName,
			}
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, callErr := c.httpClient.Do(req)
		if callErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeTimeout,
				Message:   callErr.Error(),
				Retryable: true,
				Provider:  providerName,
			}
		}
		defer resp.Body.Close()

		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return &llmhttp.Error{
				Type:       llmhttp.ErrTypeUnknown,
				Message:    fmt.Sprintf("HTTP %d (failed to read response: %v)", resp.StatusCode, readErr),
				StatusCode: resp.StatusCode,
				Retryable:  resp.StatusCode >= 500,
				Provider:   providerName,
			}
		}

		if resp.StatusCode >= 400 {
			return MapHTTPError(resp.StatusCode, respBody)
		}

		body = respBody
		header = resp.Header
		return nil
	}, c.retryConf)

	if err != nil {
		return nil, nil, err
	}
	return body, header, nil
}

// GetPullRequest fetches pull request metadata.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, pullNumber int) (domain.PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, pullNumber)

	body, _, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.PullRequest{}, err
	}

	var pr prResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return domain.PullRequest{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return domain.PullRequest{
		Number:  pr.Number,
		Title:   pr.Title,
		Body:    pr.Body,
		Author:  pr.User.Login,
		BaseRef: pr.Base.Ref,
		BaseSHA: pr.Base.SHA,
		HeadRef: pr.Head.Ref,
		HeadSHA: pr.Head.SHA,
	}, nil
}

// ListFiles fetches all changed files of a pull request, following
// Link-header pagination.
func (c *Client) ListFiles(ctx context.Context, owner, repo string, pullNumber int) ([]domain.FileDiff, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files?per_page=%d",
		c.baseURL, owner, repo, pullNumber, perPage)

	var files []domain.FileDiff
	for page := 0; url != "" && page < maxPaginationPages; page++ {
		body, header, err := c.do(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		var pageFiles []prFile
		if err := json.Unmarshal(body, &pageFiles); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}

		for _, f := range pageFiles {
			files = append(files, domain.FileDiff{
				Path:    f.Filename,
				OldPath: f.PreviousFilename,
				Status:  mapFileStatus(f.Status),
				Patch:   f.Patch,
			})
		}

		url = parseNextLink(header.Get("Link"))
	}

	return files, nil
}

// ListReviews fetches all reviews for a pull request.
// Returns reviews in chronological order (oldest first).
func (c *Client) ListReviews(ctx context.Context, owner, repo string, pullNumber int) ([]ReviewSummary, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/reviews?per_page=%d",
		c.baseURL, owner, repo, pullNumber, perPage)

	var reviews []ReviewSummary
	for page := 0; url != "" && page < maxPaginationPages; page++ {
		body, header, err := c.do(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		var pageReviews []ReviewSummary
		if err := json.Unmarshal(body, &pageReviews); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		reviews = append(reviews, pageReviews...)

		url = parseNextLink(header.Get("Link"))
	}

	return reviews, nil
}

// ListPullRequestComments fetches all inline review comments on a pull
// request, following pagination.
func (c *Client) ListPullRequestComments(ctx context.Context, owner, repo string, pullNumber int) ([]PullRequestComment, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments?per_page=%d",
		c.baseURL, owner, repo, pullNumber, perPage)

	var comments []PullRequestComment
	for page := 0; url != "" && page < maxPaginationPages; page++ {
		body, header, err := c.do(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		var pageComments []PullRequestComment
		if err := json.Unmarshal(body, &pageComments); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		comments = append(comments, pageComments...)

		url = parseNextLink(header.Get("Link"))
	}

	return comments, nil
}

// CreateReviewInput contains all data needed to create a PR review.
type CreateReviewInput struct {
	Owner      string
	Repo       string
	PullNumber int
	CommitSHA  string
	Event      ReviewEvent
	Body       string
	Comments   []DraftReviewComment
}

// CreateReview posts a pull request review, optionally with inline
// comments at diff positions.
func (c *Client) CreateReview(ctx context.Context, input CreateReviewInput) (*CreateReviewResponse, error) {
	reqBody := CreateReviewRequest{
		CommitID: input.CommitSHA,
		Event:    input.Event,
		Body:     input.Body,
		Comments: input.Comments,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/reviews",
		c.baseURL, input.Owner, input.Repo, input.PullNumber)

	body, _, err := c.do(ctx, http.MethodPost, url, jsonData)
	if err != nil {
		return nil, err
	}

	var reviewResp CreateReviewResponse
	if err := json.Unmarshal(body, &reviewResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &reviewResp, nil
}

// CreateReviewComment posts a single inline comment using the line/side
// form of the comments API. Used as a fallback when a batched review is
// rejected over a position the API will not accept.
func (c *Client) CreateReviewComment(ctx context.Context, owner, repo string, pullNumber int, commitSHA string, comment domain.ReviewComment) error {
	reqBody := createCommentRequest{
		Body:     comment.Body,
		CommitID: commitSHA,
		Path:     comment.Path,
		Line:     comment.Line,
		Side:     comment.Side,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments",
		c.baseURL, owner, repo, pullNumber)

	_, _, err = c.do(ctx, http.MethodPost, url, jsonData)
	return err
}

// mapFileStatus converts GitHub's file status strings to domain statuses.
func mapFileStatus(status string) string {
	switch status {
	case "added":
		return domain.FileStatusAdded
	case "removed":
		return domain.FileStatusDeleted
	case "renamed":
		return domain.FileStatusRenamed
	default:
		return domain.FileStatusModified
	}
}

// parseNextLink extracts the rel="next" URL from a Link header.
// Returns "" when there is no next page.
func parseNextLink(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if strings.TrimSpace(section[1]) != `rel="next"` {
			continue
		}
		raw := strings.Trim(strings.TrimSpace(section[0]), "<>")
		if _, err := url.Parse(raw); err != nil {
			return ""
		}
		return raw
	}
	return ""
}
