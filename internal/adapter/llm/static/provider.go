package static

import (
	"context"

	"github.com/prbot/prreview/internal/adapter/llm"
	"github.com/prbot/prreview/internal/domain"
)

const modelName = "static"

// Provider implements the review Provider port with canned comments.
type Provider struct {
	comments []domain.ReviewComment
}

// NewProvider constructs a static Provider that returns the given
// comments on every call. With no comments it simulates a clean review.
func NewProvider(comments ...domain.ReviewComment) *Provider {
	return &Provider{comments: comments}
}

// CreateReview returns the canned comments without calling any API.
func (p *Provider) CreateReview(ctx context.Context, req llm.Request) (llm.Response, error) {
	comments := make([]domain.ReviewComment, len(p.comments))
	copy(comments, p.comments)

	return llm.Response{
		Model:    modelName,
		Comments: comments,
	}, nil
}
