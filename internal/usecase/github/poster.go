// Package github provides use cases for publishing reviews to GitHub.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prbot/prreview/internal/adapter/github"
	llmhttp "github.com/prbot/prreview/internal/adapter/llm/http"
	"github.com/prbot/prreview/internal/domain"
	"github.com/prbot/prreview/internal/usecase/review"
)

// ReviewClient defines the interface for interacting with GitHub reviews.
// This interface allows for mocking in tests.
type ReviewClient interface {
	CreateReview(ctx context.Context, input github.CreateReviewInput) (*github.CreateReviewResponse, error)
	CreateReviewComment(ctx context.Context, owner, repo string, pullNumber int, commitSHA string, comment domain.ReviewComment) error
	ListReviews(ctx context.Context, owner, repo string, pullNumber int) ([]github.ReviewSummary, error)
	ListPullRequestComments(ctx context.Context, owner, repo string, pullNumber int) ([]github.PullRequestComment, error)
}

// ReviewPoster implements the review.Poster port. It validates the
// model's comments against the diff, submits them as one review, and
// approves the PR when nothing survives validation.
type ReviewPoster struct {
	client      ReviewClient
	botUsername string
	logger      review.Logger
}

// NewReviewPoster creates a ReviewPoster. botUsername is the login the
// bot posts under, used to recognize its own reviews and comments.
func NewReviewPoster(client ReviewClient, botUsername string, logger review.Logger) *ReviewPoster {
	return &ReviewPoster{
		client:      client,
		botUsername: botUsername,
		logger:      logger,
	}
}

// HeadAlreadyReviewed reports whether the bot has a submitted review
// for exactly this head commit. Reviews of older commits do not count:
// a new push always gets a fresh review.
func (p *ReviewPoster) HeadAlreadyReviewed(ctx context.Context, owner, repo string, pullNumber int, headSHA string) (bool, error) {
	reviews, err := p.client.ListReviews(ctx, owner, repo, pullNumber)
	if err != nil {
		return false, err
	}

	for _, r := range reviews {
		if !strings.EqualFold(r.User.Login, p.botUsername) {
			continue
		}
		if r.State == github.ReviewStateDismissed || r.State == github.ReviewStatePending {
			continue
		}
		if r.CommitID == headSHA {
			return true, nil
		}
	}
	return false, nil
}

// ExistingComments fetches the PR's inline discussion, rendered for the
// prompt, plus the fingerprints of comments this bot already posted.
func (p *ReviewPoster) ExistingComments(ctx context.Context, owner, repo string, pullNumber int) (review.ExistingComments, error) {
	comments, err := p.client.ListPullRequestComments(ctx, owner, repo, pullNumber)
	if err != nil {
		return review.ExistingComments{}, err
	}

	return review.ExistingComments{
		Threads:      renderThreads(comments),
		Fingerprints: p.collectFingerprints(comments),
	}, nil
}

// renderThreads groups inline comments into reply threads and renders
// them the way they appear in the prompt's existing-comments section.
func renderThreads(comments []github.PullRequestComment) string {
	// Replies keep their root's ID; roots appear before their replies
	// in the API's creation order.
	threads := make(map[int64][]github.PullRequestComment)
	var order []int64
	for _, c := range comments {
		rootID := c.ID
		if c.InReplyToID != 0 {
			rootID = c.InReplyToID
		}
		if _, seen := threads[rootID]; !seen {
			order = append(order, rootID)
		}
		threads[rootID] = append(threads[rootID], c)
	}

	var rendered []string
	for _, rootID := range order {
		thread := threads[rootID]
		var parts []string
		for _, c := range thread {
			parts = append(parts, fmt.Sprintf("From: %s\n%s\n", c.User.Login, c.Body))
		}
		rendered = append(rendered, fmt.Sprintf("Thread At %s:L%d\n%s",
			thread[0].Path, thread[0].Line, strings.Join(parts, "--------------\n")))
	}
	return strings.Join(rendered, "==============\n")
}

func (p *ReviewPoster) collectFingerprints(comments []github.PullRequestComment) map[string]bool {
	fingerprints := make(map[string]bool)
	for _, c := range comments {
		if !strings.EqualFold(c.User.Login, p.botUsername) {
			continue
		}
		if fp, ok := github.ExtractFingerprint(c.Body); ok {
			fingerprints[fp] = true
		}
	}
	return fingerprints
}

// PostReview validates the candidates against the diff and publishes
// the review. With no surviving comments the PR is approved instead.
//
// When GitHub rejects the batched review over a position it will not
// accept, the poster falls back to submitting each comment individually
// through the line/side comments API, skipping the ones that still fail.
func (p *ReviewPoster) PostReview(ctx context.Context, input review.PostInput) (review.PostOutcome, error) {
	positioned, dropped := github.MapComments(input.Comments, input.Files)

	if len(positioned) == 0 {
		resp, err := p.client.CreateReview(ctx, github.CreateReviewInput{
			Owner:      input.Owner,
			Repo:       input.Repo,
			PullNumber: input.PullNumber,
			CommitSHA:  input.HeadSHA,
			Event:      github.EventApprove,
			Body:       github.ApproveBody,
		})
		if err != nil {
			return review.PostOutcome{}, err
		}
		return review.PostOutcome{
			ReviewID: resp.ID,
			URL:      resp.HTMLURL,
			Dropped:  len(dropped),
			Approved: true,
		}, nil
	}

	resp, err := p.client.CreateReview(ctx, github.CreateReviewInput{
		Owner:      input.Owner,
		Repo:       input.Repo,
		PullNumber: input.PullNumber,
		CommitSHA:  input.HeadSHA,
		Event:      github.EventComment,
		Comments:   github.BuildReviewComments(positioned),
	})
	if err != nil {
		if isPositionRejection(err) {
			p.logWarning(ctx, "batched review rejected, falling back to individual comments", map[string]interface{}{
				"error": err.Error(),
			})
			return p.postIndividually(ctx, input, positioned, len(dropped))
		}
		return review.PostOutcome{}, err
	}

	return review.PostOutcome{
		ReviewID: resp.ID,
		URL:      resp.HTMLURL,
		Posted:   len(positioned),
		Dropped:  len(dropped),
	}, nil
}

// postIndividually submits each comment on its own so one bad position
// cannot sink the rest of the review.
func (p *ReviewPoster) postIndividually(ctx context.Context, input review.PostInput, positioned []github.PositionedComment, dropped int) (review.PostOutcome, error) {
	posted := 0
	for _, pc := range positioned {
		comment := pc.Comment
		comment.Body = github.FormatCommentBody(pc.Comment)
		if err := p.client.CreateReviewComment(ctx, input.Owner, input.Repo, input.PullNumber, input.HeadSHA, comment); err != nil {
			p.logWarning(ctx, "failed to post comment", map[string]interface{}{
				"path":  pc.Comment.Path,
				"line":  pc.Comment.Line,
				"error": err.Error(),
			})
			dropped++
			continue
		}
		posted++
	}

	return review.PostOutcome{
		Posted:  posted,
		Dropped: dropped,
	}, nil
}

// isPositionRejection reports whether GitHub rejected the review body
// itself (HTTP 422), as opposed to failing transport or auth.
func isPositionRejection(err error) bool {
	var apiErr *llmhttp.Error
	return errors.As(err, &apiErr) &&
		apiErr.Type == llmhttp.ErrTypeInvalidRequest &&
		apiErr.StatusCode == 422
}

func (p *ReviewPoster) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.LogWarning(ctx, message, fields)
	}
}
