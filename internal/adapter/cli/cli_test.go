package cli_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/prbot/prreview/internal/adapter/cli"
	"github.com/prbot/prreview/internal/domain"
	"github.com/prbot/prreview/internal/usecase/review"
)

type reviewerStub struct {
	request review.Request
	result  domain.RunResult
	err     error
	calls   int
}

func (r *reviewerStub) Run(ctx context.Context, req review.Request) (domain.RunResult, error) {
	r.calls++
	r.request = req
	return r.result, r.err
}

func TestReviewCommandInvokesUseCase(t *testing.T) {
	stub := &reviewerStub{result: domain.RunResult{Outcome: domain.OutcomeCommented, CommentsPosted: 2}}
	var out bytes.Buffer
	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer:          stub,
		Args:              cli.Arguments{OutWriter: &out, ErrWriter: io.Discard},
		DefaultRepository: "acme/widgets",
		DefaultOutput:     "build",
		Version:           "v1.2.3",
	})

	root.SetArgs([]string{"review", "17", "--force"})
	if err := root.Execute(); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}

	if stub.request.PRNumber != 17 {
		t.Fatalf("expected PR number 17, got %d", stub.request.PRNumber)
	}
	if stub.request.Repository != "acme/widgets" {
		t.Fatalf("expected default repository, got %s", stub.request.Repository)
	}
	if stub.request.OutputDir != "build" {
		t.Fatalf("expected default output dir build, got %s", stub.request.OutputDir)
	}
	if !stub.request.Force {
		t.Fatalf("expected force to be true")
	}
	if !strings.Contains(out.String(), "acme/widgets/pull/17") {
		t.Fatalf("expected summary line, got %q", out.String())
	}
}

func TestReviewCommandFlagsOverrideDefaults(t *testing.T) {
	stub := &reviewerStub{result: domain.RunResult{Outcome: domain.OutcomeApproved}}
	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer:          stub,
		Args:              cli.Arguments{OutWriter: io.Discard, ErrWriter: io.Discard},
		DefaultRepository: "acme/widgets",
		DefaultPRNumber:   17,
		Version:           "v1.2.3",
	})

	root.SetArgs([]string{"review", "--pr", "99", "--repository", "acme/gadgets", "--output", "reports", "--dry-run"})
	if err := root.Execute(); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}

	if stub.request.PRNumber != 99 {
		t.Fatalf("expected PR number 99, got %d", stub.request.PRNumber)
	}
	if stub.request.Repository != "acme/gadgets" {
		t.Fatalf("expected repository override, got %s", stub.request.Repository)
	}
	if stub.request.OutputDir != "reports" {
		t.Fatalf("expected output dir reports, got %s", stub.request.OutputDir)
	}
	if !stub.request.DryRun {
		t.Fatalf("expected dry run to be true")
	}
}

func TestReviewCommandUsesDefaultPRNumber(t *testing.T) {
	stub := &reviewerStub{result: domain.RunResult{Outcome: domain.OutcomeApproved}}
	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer:          stub,
		Args:              cli.Arguments{OutWriter: io.Discard, ErrWriter: io.Discard},
		DefaultRepository: "acme/widgets",
		DefaultPRNumber:   42,
		Version:           "v1.2.3",
	})

	root.SetArgs([]string{"review"})
	if err := root.Execute(); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}

	if stub.request.PRNumber != 42 {
		t.Fatalf("expected default PR number 42, got %d", stub.request.PRNumber)
	}
}

func TestReviewCommandRequiresPRNumber(t *testing.T) {
	stub := &reviewerStub{}
	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer:          stub,
		Args:              cli.Arguments{OutWriter: io.Discard, ErrWriter: io.Discard},
		DefaultRepository: "acme/widgets",
		Version:           "v1.2.3",
	})

	root.SetArgs([]string{"review"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected an error when no PR number is available")
	}
	if stub.calls != 0 {
		t.Fatalf("reviewer must not run without a PR number")
	}
}

func TestReviewCommandRejectsBadPRArgument(t *testing.T) {
	stub := &reviewerStub{}
	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer:          stub,
		Args:              cli.Arguments{OutWriter: io.Discard, ErrWriter: io.Discard},
		DefaultRepository: "acme/widgets",
		Version:           "v1.2.3",
	})

	root.SetArgs([]string{"review", "seventeen"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected an error for a non-numeric PR argument")
	}
	if stub.calls != 0 {
		t.Fatalf("reviewer must not run with a bad PR argument")
	}
}

func TestVersionFlagPrintsVersion(t *testing.T) {
	var out bytes.Buffer
	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer: &stubReviewer{},
		Args:     cli.Arguments{OutWriter: &out, ErrWriter: io.Discard},
		Version:  "v9.9.9",
	})

	root.SetArgs([]string{"--version"})
	err := root.Execute()
	if err != cli.ErrVersionRequested {
		t.Fatalf("expected ErrVersionRequested, got %v", err)
	}
	if strings.TrimSpace(out.String()) != "v9.9.9" {
		t.Fatalf("expected version output, got %q", out.String())
	}
}
