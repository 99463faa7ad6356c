package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prreview/internal/adapter/llm"
	"github.com/prbot/prreview/internal/domain"
)

func TestProviderReturnsCannedComments(t *testing.T) {
	canned := domain.ReviewComment{
		Path: "main.go",
		Line: 7,
		Side: domain.SideRight,
		Body: "missing error check",
	}

	p := NewProvider(canned)
	resp, err := p.CreateReview(context.Background(), llm.Request{Prompt: "diff"})

	require.NoError(t, err)
	assert.Equal(t, modelName, resp.Model)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, canned, resp.Comments[0])
}

func TestProviderEmptyMeansCleanReview(t *testing.T) {
	p := NewProvider()
	resp, err := p.CreateReview(context.Background(), llm.Request{Prompt: "diff"})

	require.NoError(t, err)
	assert.Empty(t, resp.Comments)
}

func TestProviderCopiesCommentsPerCall(t *testing.T) {
	p := NewProvider(domain.ReviewComment{Path: "a.go", Line: 1, Side: domain.SideRight, Body: "b"})

	first, err := p.CreateReview(context.Background(), llm.Request{})
	require.NoError(t, err)
	first.Comments[0].Body = "mutated"

	second, err := p.CreateReview(context.Background(), llm.Request{})
	require.NoError(t, err)
	assert.Equal(t, "b", second.Comments[0].Body)
}
