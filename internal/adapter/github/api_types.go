package github

// GitHub Pull Request APIs wire types.
// See: https://docs.github.com/en/rest/pulls

// ReviewEvent represents the action to take when submitting a review.
type ReviewEvent string

const (
	// EventComment submits the review without approval.
	EventComment ReviewEvent = "COMMENT"

	// EventApprove approves the pull request.
	EventApprove ReviewEvent = "APPROVE"

	// EventRequestChanges requests changes to the pull request.
	EventRequestChanges ReviewEvent = "REQUEST_CHANGES"
)

// Review states as returned by the reviews API.
const (
	ReviewStateApproved         = "APPROVED"
	ReviewStateChangesRequested = "CHANGES_REQUESTED"
	ReviewStateCommented        = "COMMENTED"
	ReviewStateDismissed        = "DISMISSED"
	ReviewStatePending          = "PENDING"
)

// prResponse is the response body for GET /repos/{owner}/{repo}/pulls/{pull_number}.
type prResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	User   User   `json:"user"`
	Base   prRef  `json:"base"`
	Head   prRef  `json:"head"`
}

type prRef struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// prFile is one entry of GET /repos/{owner}/{repo}/pulls/{pull_number}/files.
type prFile struct {
	Filename         string `json:"filename"`
	PreviousFilename string `json:"previous_filename"`
	Status           string `json:"status"` // added, removed, modified, renamed, copied, changed, unchanged
	Patch            string `json:"patch"`  // absent for binary files and very large diffs
}

// CreateReviewRequest is the request body for POST /repos/{owner}/{repo}/pulls/{pull_number}/reviews.
type CreateReviewRequest struct {
	// CommitID is the SHA of the commit to review (must be the head commit of the PR).
	CommitID string `json:"commit_id"`

	// Event is the review action: APPROVE, REQUEST_CHANGES, or COMMENT.
	Event ReviewEvent `json:"event"`

	// Body is the review summary comment.
	Body string `json:"body"`

	// Comments are the inline review comments at specific diff positions.
	Comments []DraftReviewComment `json:"comments,omitempty"`
}

// DraftReviewComment is an inline comment at a specific diff position,
// submitted as part of a review.
type DraftReviewComment struct {
	// Path is the relative path of the file to comment on.
	Path string `json:"path"`

	// Position is the line index in the diff to comment on, 1-indexed
	// from the line below the first @@ hunk header.
	Position int `json:"position"`

	// Body is the comment text (supports GitHub-flavored Markdown).
	Body string `json:"body"`
}

// CreateReviewResponse is the response from POST /repos/{owner}/{repo}/pulls/{pull_number}/reviews.
type CreateReviewResponse struct {
	ID          int64  `json:"id"`
	NodeID      string `json:"node_id"`
	User        User   `json:"user"`
	Body        string `json:"body"`
	State       string `json:"state"`
	CommitID    string `json:"commit_id"`
	HTMLURL     string `json:"html_url"`
	SubmittedAt string `json:"submitted_at"`
}

// createCommentRequest is the request body for POST /repos/{owner}/{repo}/pulls/{pull_number}/comments,
// the per-comment fallback used when a batched review is rejected.
type createCommentRequest struct {
	Body     string `json:"body"`
	CommitID string `json:"commit_id"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Side     string `json:"side"`
}

// ReviewSummary is one entry of GET /repos/{owner}/{repo}/pulls/{pull_number}/reviews.
type ReviewSummary struct {
	ID          int64  `json:"id"`
	User        User   `json:"user"`
	Body        string `json:"body"`
	State       string `json:"state"`
	CommitID    string `json:"commit_id"`
	SubmittedAt string `json:"submitted_at"`
}

// PullRequestComment is one entry of GET /repos/{owner}/{repo}/pulls/{pull_number}/comments.
type PullRequestComment struct {
	ID          int64  `json:"id"`
	User        User   `json:"user"`
	Body        string `json:"body"`
	Path        string `json:"path"`
	Line        int    `json:"line"`
	Side        string `json:"side"`
	CreatedAt   string `json:"created_at"`
	InReplyToID int64  `json:"in_reply_to_id,omitempty"`
}

// User represents a GitHub user in the response.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"` // "User" or "Bot"
}

// GitHubErrorResponse represents an error response from the GitHub API.
type GitHubErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors,omitempty"`
}
