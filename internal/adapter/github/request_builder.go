package github

import (
	"fmt"
	"regexp"

	"github.com/prbot/prreview/internal/domain"
)

// ApproveBody is the review body posted when no comments survive
// validation and the pull request is approved.
const ApproveBody = "LGTM :)"

// fingerprintPattern matches the hidden marker embedded in posted
// comment bodies. The marker survives GitHub's Markdown rendering as an
// HTML comment, so readers never see it but later runs can.
var fingerprintPattern = regexp.MustCompile(`<!-- prreview:fingerprint:([0-9a-f]{16}) -->`)

// FormatCommentBody renders a review comment body for posting, with the
// comment's fingerprint embedded as an invisible marker.
func FormatCommentBody(c domain.ReviewComment) string {
	return fmt.Sprintf("%s\n\n<!-- prreview:fingerprint:%s -->", c.Body, c.Fingerprint())
}

// ExtractFingerprint pulls the fingerprint marker out of a previously
// posted comment body. Returns false for bodies without a marker,
// including comments written by humans.
func ExtractFingerprint(body string) (string, bool) {
	m := fingerprintPattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// BuildReviewComments converts positioned comments to the review API's
// draft comment form. This function is pure and does not modify the input.
func BuildReviewComments(positioned []PositionedComment) []DraftReviewComment {
	var comments []DraftReviewComment
	for _, pc := range positioned {
		comments = append(comments, DraftReviewComment{
			Path:     pc.Comment.Path,
			Position: pc.Position,
			Body:     FormatCommentBody(pc.Comment),
		})
	}
	return comments
}
