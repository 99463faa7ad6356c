package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prreview/internal/domain"
)

func TestFormatCommentBodyEmbedsFingerprint(t *testing.T) {
	c := domain.ReviewComment{Path: "a.go", Line: 3, Side: domain.SideRight, Body: "use errors.Is here"}

	body := FormatCommentBody(c)

	assert.Contains(t, body, "use errors.Is here")
	fp, ok := ExtractFingerprint(body)
	require.True(t, ok)
	assert.Equal(t, c.Fingerprint(), fp)
}

func TestExtractFingerprintHumanComment(t *testing.T) {
	_, ok := ExtractFingerprint("nice catch, will fix")
	assert.False(t, ok)
}

func TestExtractFingerprintRejectsMalformedMarker(t *testing.T) {
	_, ok := ExtractFingerprint("<!-- prreview:fingerprint:nothex -->")
	assert.False(t, ok)
}

func TestBuildReviewComments(t *testing.T) {
	positioned := []PositionedComment{
		{Comment: domain.ReviewComment{Path: "a.go", Line: 2, Side: domain.SideRight, Body: "first"}, Position: 2},
		{Comment: domain.ReviewComment{Path: "b.go", Line: 5, Side: domain.SideLeft, Body: "second"}, Position: 7},
	}

	comments := BuildReviewComments(positioned)

	require.Len(t, comments, 2)
	assert.Equal(t, "a.go", comments[0].Path)
	assert.Equal(t, 2, comments[0].Position)
	assert.Contains(t, comments[0].Body, "first")
	assert.Contains(t, comments[0].Body, "prreview:fingerprint:")
	assert.Equal(t, 7, comments[1].Position)
}

func TestBuildReviewCommentsEmpty(t *testing.T) {
	assert.Empty(t, BuildReviewComments(nil))
}
