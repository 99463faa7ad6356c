package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prbot/prreview/internal/domain"
)

func TestRecordRun(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	err = s.RecordRun(context.Background(), "acme/widgets", 42, "head111", domain.RunResult{
		Outcome:         domain.OutcomeCommented,
		CommentsPosted:  3,
		CommentsDropped: 1,
		Model:           "o3",
		Cost:            0.12,
	})
	require.NoError(t, err)

	var count int
	var outcome string
	var posted int
	row := s.db.QueryRow("SELECT COUNT(*), outcome, comments_posted FROM runs WHERE repository = ? AND pr_number = ?", "acme/widgets", 42)
	require.NoError(t, row.Scan(&count, &outcome, &posted))
	assert.Equal(t, 1, count)
	assert.Equal(t, "commented", outcome)
	assert.Equal(t, 3, posted)
}

func TestRecordMultipleRuns(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.RecordRun(ctx, "acme/widgets", 42, "sha1", domain.RunResult{Outcome: domain.OutcomeApproved}))
	require.NoError(t, s.RecordRun(ctx, "acme/widgets", 42, "sha2", domain.RunResult{Outcome: domain.OutcomeSkipped}))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count))
	assert.Equal(t, 2, count)
}
