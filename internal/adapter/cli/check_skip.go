package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prbot/prreview/internal/usecase/skip"
)

// ErrShouldReview is returned when no skip trigger is found,
// indicating the review should proceed. Use this as a sentinel
// error in the CI workflow.
var ErrShouldReview = errors.New("should review")

// checkSkipCommand creates the check-skip subcommand. It checks
// commit messages and PR metadata for skip triggers so a workflow
// can bail out before the review job starts.
//
// Exit codes:
//   - 0: Skip trigger found, review should be skipped
//   - 1: No skip trigger, review should proceed
func checkSkipCommand() *cobra.Command {
	var commitMessages []string
	var prTitle string
	var prBody string

	cmd := &cobra.Command{
		Use:   "check-skip",
		Short: "Check if the review should be skipped",
		Long: `Check commit messages and PR metadata for skip triggers.

Supported skip trigger patterns:
  [skip review]
  [skip-review]

Patterns are case-insensitive and can appear anywhere in the text.

Exit codes:
  0 - Skip trigger found, review should be skipped
  1 - No skip trigger, review should proceed

Example usage in GitHub Actions:
  if ./prreview check-skip --commit-message "${{ github.event.head_commit.message }}"; then
    echo "Skipping review"
    exit 0
  fi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := skip.Check(skip.CheckRequest{
				CommitMessages: commitMessages,
				PRTitle:        prTitle,
				PRBody:         prBody,
			})

			if result.ShouldSkip {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "skip: %s\n", result.Reason)
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "review: no skip trigger found")
			return ErrShouldReview
		},
	}

	cmd.Flags().StringArrayVar(&commitMessages, "commit-message", nil, "Commit message(s) to check (can be repeated)")
	cmd.Flags().StringVar(&prTitle, "pr-title", "", "PR title to check")
	cmd.Flags().StringVar(&prBody, "pr-body", "", "PR body to check")

	return cmd
}
