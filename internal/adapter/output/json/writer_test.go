package json

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prreview/internal/domain"
)

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(func() string { return "20260831T120000Z" })

	path, err := w.Write(context.Background(), domain.RunArtifact{
		OutputDir:  dir,
		Repository: "acme/widgets",
		PRNumber:   42,
		HeadSHA:    "head111",
		Model:      "o3",
		Result: domain.RunResult{
			Outcome:         domain.OutcomeCommented,
			CommentsPosted:  1,
			CommentsDropped: 1,
			ReviewURL:       "https://github.com/acme/widgets/pull/42#pullrequestreview-99",
			Cost:            0.05,
		},
		Comments: []domain.ReviewComment{
			{Path: "a.go", Line: 2, Side: domain.SideRight, Body: "missing error check"},
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "acme/widgets", record["repository"])
	assert.Equal(t, float64(42), record["prNumber"])
	assert.Equal(t, "commented", record["outcome"])
	assert.Equal(t, float64(1), record["commentsPosted"])
	assert.Len(t, record["comments"], 1)
}

func TestWriteEmptyCommentsSerializesAsArray(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(func() string { return "ts" })

	path, err := w.Write(context.Background(), domain.RunArtifact{
		OutputDir:  dir,
		Repository: "acme/widgets",
		PRNumber:   7,
		Result:     domain.RunResult{Outcome: domain.OutcomeApproved},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"comments": []`)
}
