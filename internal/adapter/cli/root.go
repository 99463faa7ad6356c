package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/prbot/prreview/internal/domain"
	"github.com/prbot/prreview/internal/usecase/review"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// Reviewer defines the dependency required to run the review command.
type Reviewer interface {
	Run(ctx context.Context, req review.Request) (domain.RunResult, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Reviewer          Reviewer
	Args              Arguments
	DefaultRepository string // From config github.repository
	DefaultPRNumber   int    // From the PR_NUMBER environment variable
	DefaultOutput     string
	Version           string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "prreview",
		Short: "Automated pull request review for CI pipelines",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(reviewCommand(deps.Reviewer, deps.DefaultRepository, deps.DefaultPRNumber, deps.DefaultOutput))
	root.AddCommand(checkSkipCommand())

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func reviewCommand(reviewer Reviewer, defaultRepository string, defaultPRNumber int, defaultOutput string) *cobra.Command {
	var prNumber int
	var repository string
	var outputDir string
	var force bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "review [pr-number]",
		Short: "Review a pull request and post inline comments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				parsed, err := parsePRNumber(args[0])
				if err != nil {
					return err
				}
				prNumber = parsed
			}
			if prNumber <= 0 {
				return fmt.Errorf("pull request number not specified; pass as an argument, use --pr, or set PR_NUMBER")
			}
			if repository == "" {
				return fmt.Errorf("repository not specified; use --repository or set github.repository in the config")
			}

			result, err := reviewer.Run(cmd.Context(), review.Request{
				Repository: repository,
				PRNumber:   prNumber,
				Force:      force,
				DryRun:     dryRun,
				OutputDir:  outputDir,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s/pull/%d: %s\n", repository, prNumber, result.String())
			if result.ReviewURL != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.ReviewURL)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&prNumber, "pr", defaultPRNumber, "Pull request number (overrides positional)")
	cmd.Flags().StringVar(&repository, "repository", defaultRepository, "Repository slug as owner/name")
	if defaultOutput == "" {
		defaultOutput = "out"
	}
	cmd.Flags().StringVar(&outputDir, "output", defaultOutput, "Directory to write run artifacts")
	cmd.Flags().BoolVar(&force, "force", false, "Review even when the head commit was already reviewed")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the full pipeline but log comments instead of posting")

	return cmd
}

func parsePRNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid pull request number %q", arg)
	}
	return n, nil
}
