package review

import (
	"context"

	"github.com/prbot/prreview/internal/adapter/llm"
	"github.com/prbot/prreview/internal/domain"
)

// Fetcher loads pull request metadata and changed files from GitHub.
type Fetcher interface {
	GetPullRequest(ctx context.Context, owner, repo string, pullNumber int) (domain.PullRequest, error)
	ListFiles(ctx context.Context, owner, repo string, pullNumber int) ([]domain.FileDiff, error)
}

// DiffSource computes changed files from a local checkout. When set it
// replaces the Fetcher's ListFiles, saving API calls in Actions runs.
type DiffSource interface {
	ChangedFiles(ctx context.Context, baseRef, headRef string) ([]domain.FileDiff, error)
}

// RulesLoader loads the repository's coding guidelines document.
type RulesLoader interface {
	Load() (string, error)
}

// Provider defines the outbound port for LLM reviews.
type Provider interface {
	CreateReview(ctx context.Context, req llm.Request) (llm.Response, error)
}

// Redactor scrubs secrets from prompt text before it leaves the process.
type Redactor interface {
	Redact(input string) string
}

// ExistingComments summarizes the review discussion already on the PR.
type ExistingComments struct {
	// Threads is the rendered conversation, embedded into the prompt so
	// the model does not repeat points reviewers already made.
	Threads string

	// Fingerprints are the markers of comments this bot posted before.
	Fingerprints map[string]bool
}

// PostInput carries a validated review to the poster.
type PostInput struct {
	Owner      string
	Repo       string
	PullNumber int
	HeadSHA    string

	// Files are the PR's diffs, used to resolve comment positions.
	Files []domain.FileDiff

	// Comments are the model's candidates. The poster drops the ones
	// that do not land on a diff line.
	Comments []domain.ReviewComment
}

// PostOutcome reports what the poster actually submitted.
type PostOutcome struct {
	ReviewID int64
	URL      string
	Posted   int
	Dropped  int

	// Approved is true when no comment survived validation and the PR
	// was approved instead.
	Approved bool
}

// Poster defines the outbound port for publishing reviews to GitHub.
type Poster interface {
	// HeadAlreadyReviewed reports whether this bot already reviewed the
	// PR's current head commit.
	HeadAlreadyReviewed(ctx context.Context, owner, repo string, pullNumber int, headSHA string) (bool, error)

	// ExistingComments fetches the PR's current review discussion.
	ExistingComments(ctx context.Context, owner, repo string, pullNumber int) (ExistingComments, error)

	// PostReview validates and publishes the review.
	PostReview(ctx context.Context, input PostInput) (PostOutcome, error)
}

// ArtifactWriter persists a record of the run to disk.
type ArtifactWriter interface {
	Write(ctx context.Context, artifact domain.RunArtifact) (string, error)
}

// HistoryStore appends finished runs to the optional run-history database.
type HistoryStore interface {
	RecordRun(ctx context.Context, repository string, prNumber int, headSHA string, result domain.RunResult) error
}

// Logger provides structured logging for the review use case.
type Logger interface {
	// LogWarning logs a warning message with structured fields.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})

	// LogInfo logs an informational message with structured fields.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}
