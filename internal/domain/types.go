package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	FileStatusAdded    = "added"
	FileStatusModified = "modified"
	FileStatusDeleted  = "deleted"
	FileStatusRenamed  = "renamed"
)

// Comment sides, matching the GitHub review comment API.
const (
	SideRight = "RIGHT" // added or context line, new file version
	SideLeft  = "LEFT"  // deleted line, old file version
)

// PullRequest is the metadata for the pull request under review.
// Fetched once per run and immutable afterwards.
type PullRequest struct {
	Number  int
	Title   string
	Body    string
	Author  string
	BaseRef string
	BaseSHA string
	HeadRef string
	HeadSHA string
}

// FileDiff captures the change for a single file in the pull request.
type FileDiff struct {
	Path    string
	OldPath string // previous path for renames, empty otherwise
	Status  string
	Patch   string // unified diff hunks for this file
}

// ReviewComment is a single inline comment candidate produced by the
// model, anchored to a file line on one side of the diff.
type ReviewComment struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Side string `json:"side"`
	Body string `json:"body"`
}

// Fingerprint returns a short stable identifier for the comment.
// Two candidates with the same anchor and text hash to the same value,
// which lets a later run skip comments that are already on the PR.
func (c ReviewComment) Fingerprint() string {
	payload := fmt.Sprintf("%s|%d|%s|%s", c.Path, c.Line, c.Side, c.Body)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:8])
}

// Outcome describes how a review run ended.
type Outcome string

const (
	// OutcomeApproved means no valid comments survived and the PR was approved.
	OutcomeApproved Outcome = "approved"

	// OutcomeCommented means at least one inline comment was posted.
	OutcomeCommented Outcome = "commented"

	// OutcomeSkipped means the head commit was already reviewed and the
	// run ended without calling the model.
	OutcomeSkipped Outcome = "skipped"
)

// RunResult summarizes a single review run.
type RunResult struct {
	Outcome         Outcome
	CommentsPosted  int
	CommentsDropped int // candidates discarded by path/line validation or dedup
	ReviewURL       string
	Model           string
	Cost            float64 // USD spent on the model call, 0 when skipped
}

// String renders the result the way it is reported to the CI log.
func (r RunResult) String() string {
	switch r.Outcome {
	case OutcomeCommented:
		return fmt.Sprintf("comments posted(%d)", r.CommentsPosted)
	case OutcomeSkipped:
		return "skipped (head commit already reviewed)"
	default:
		return "approved"
	}
}

// RunArtifact bundles everything the artifact writers need to persist a
// record of the run for CI upload.
type RunArtifact struct {
	OutputDir  string
	Repository string
	PRNumber   int
	HeadSHA    string
	Model      string
	Result     RunResult
	Comments   []ReviewComment
}
