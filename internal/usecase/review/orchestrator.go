package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prbot/prreview/internal/adapter/llm"
	llmhttp "github.com/prbot/prreview/internal/adapter/llm/http"
	"github.com/prbot/prreview/internal/domain"
	"github.com/prbot/prreview/internal/usecase/skip"
)

// OrchestratorDeps captures the outbound dependencies for the orchestrator.
type OrchestratorDeps struct {
	Fetcher       Fetcher
	DiffSource    DiffSource // Optional: replaces Fetcher.ListFiles when set
	Rules         RulesLoader
	Provider      Provider
	Poster        Poster
	PromptBuilder *PromptBuilder
	Redactor      Redactor       // Optional: scrubs secrets from the prompt
	Markdown      ArtifactWriter // Optional: markdown run report
	JSON          ArtifactWriter // Optional: json run report
	Store         HistoryStore   // Optional: run-history database
	Logger        Logger         // Optional: structured warnings and info
	Now           func() time.Time

	// SystemPrompt is appended to the built-in review instructions.
	SystemPrompt string

	// MaxInputTokens bounds the estimated prompt size. Zero disables
	// the check.
	MaxInputTokens int

	// MaxOutputTokens caps the model's completion length.
	MaxOutputTokens int

	// OutputDir is where artifact writers place run reports.
	OutputDir string
}

// Request represents one inbound review request.
type Request struct {
	// Repository is the owner/name slug.
	Repository string

	// PRNumber is the pull request to review.
	PRNumber int

	// Force reviews the head commit even when it was already reviewed.
	Force bool

	// OutputDir overrides the configured artifact directory when set.
	OutputDir string

	// DryRun runs the full pipeline but logs the review instead of
	// posting it.
	DryRun bool
}

// Orchestrator implements the review pipeline: fetch the PR state,
// build the prompt, call the model, validate its comments against the
// diff, and publish the result.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator wires the orchestrator dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.PromptBuilder == nil {
		deps.PromptBuilder = NewPromptBuilder(0)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) validateDependencies() error {
	if o.deps.Fetcher == nil {
		return errors.New("fetcher is required")
	}
	if o.deps.Rules == nil {
		return errors.New("rules loader is required")
	}
	if o.deps.Provider == nil {
		return errors.New("provider is required")
	}
	if o.deps.Poster == nil {
		return errors.New("poster is required")
	}
	return nil
}

// Run executes one review.
func (o *Orchestrator) Run(ctx context.Context, req Request) (domain.RunResult, error) {
	const op = "review.Run"

	if err := o.validateDependencies(); err != nil {
		return domain.RunResult{}, err
	}

	owner, repo, ok := strings.Cut(req.Repository, "/")
	if !ok {
		return domain.RunResult{}, fmt.Errorf("repository must be owner/name, got %q", req.Repository)
	}

	pr, err := o.deps.Fetcher.GetPullRequest(ctx, owner, repo, req.PRNumber)
	if err != nil {
		return domain.RunResult{}, classify(op, err)
	}

	if !req.Force {
		if check := skip.Check(skip.CheckRequest{PRTitle: pr.Title, PRBody: pr.Body}); check.ShouldSkip {
			o.logInfo(ctx, "skip trigger found", map[string]interface{}{"source": check.Reason})
			result := domain.RunResult{Outcome: domain.OutcomeSkipped}
			o.finish(ctx, req, pr, result, nil)
			return result, nil
		}
	}

	// A head commit this bot already reviewed is a clean no-op, so a
	// re-run of the workflow does not spend another model call.
	if !req.Force {
		reviewed, err := o.deps.Poster.HeadAlreadyReviewed(ctx, owner, repo, req.PRNumber, pr.HeadSHA)
		if err != nil {
			o.logWarning(ctx, "failed to check previous reviews", map[string]interface{}{
				"error":    err.Error(),
				"prNumber": req.PRNumber,
			})
		} else if reviewed {
			result := domain.RunResult{Outcome: domain.OutcomeSkipped}
			o.finish(ctx, req, pr, result, nil)
			return result, nil
		}
	}

	files, err := o.changedFiles(ctx, owner, repo, req.PRNumber, pr)
	if err != nil {
		return domain.RunResult{}, classify(op, err)
	}

	rules, err := o.deps.Rules.Load()
	if err != nil {
		o.logWarning(ctx, "failed to load coding rules", map[string]interface{}{"error": err.Error()})
		rules = ""
	}

	existing, err := o.deps.Poster.ExistingComments(ctx, owner, repo, req.PRNumber)
	if err != nil {
		o.logWarning(ctx, "failed to fetch existing comments", map[string]interface{}{"error": err.Error()})
		existing = ExistingComments{}
	}

	prompt, err := o.deps.PromptBuilder.Build(pr, files, rules, existing.Threads)
	if err != nil {
		return domain.RunResult{}, err
	}

	if o.deps.Redactor != nil {
		prompt = o.deps.Redactor.Redact(prompt)
	}

	systemPrompt := BuildSystemPrompt(o.deps.Now(), o.deps.SystemPrompt)

	if o.deps.MaxInputTokens > 0 {
		estimated := llm.EstimateTokens(systemPrompt) + llm.EstimateTokens(prompt)
		if estimated > o.deps.MaxInputTokens {
			return domain.RunResult{}, domain.NewError(domain.KindPayloadTooLarge, op,
				fmt.Errorf("prompt is ~%d tokens, limit is %d", estimated, o.deps.MaxInputTokens))
		}
	}

	resp, err := o.deps.Provider.CreateReview(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
		MaxTokens:    o.deps.MaxOutputTokens,
	})
	if err != nil {
		return domain.RunResult{}, classify(op, err)
	}

	candidates, duplicates := dropDuplicates(resp.Comments, existing.Fingerprints)
	if duplicates > 0 {
		o.logInfo(ctx, "dropped comments already posted in earlier runs", map[string]interface{}{
			"duplicates": duplicates,
		})
	}

	if req.DryRun {
		result := domain.RunResult{
			Outcome:         outcomeFor(len(candidates)),
			CommentsPosted:  len(candidates),
			CommentsDropped: duplicates,
			Model:           resp.Model,
			Cost:            resp.Usage.Cost,
		}
		o.logDryRun(ctx, candidates)
		o.finish(ctx, req, pr, result, candidates)
		return result, nil
	}

	outcome, err := o.deps.Poster.PostReview(ctx, PostInput{
		Owner:      owner,
		Repo:       repo,
		PullNumber: req.PRNumber,
		HeadSHA:    pr.HeadSHA,
		Files:      files,
		Comments:   candidates,
	})
	if err != nil {
		return domain.RunResult{}, domain.NewError(domain.KindCommentPost, op, err)
	}

	result := domain.RunResult{
		Outcome:         outcomeFor(outcome.Posted),
		CommentsPosted:  outcome.Posted,
		CommentsDropped: outcome.Dropped + duplicates,
		ReviewURL:       outcome.URL,
		Model:           resp.Model,
		Cost:            resp.Usage.Cost,
	}
	o.finish(ctx, req, pr, result, candidates)
	return result, nil
}

func (o *Orchestrator) changedFiles(ctx context.Context, owner, repo string, prNumber int, pr domain.PullRequest) ([]domain.FileDiff, error) {
	if o.deps.DiffSource != nil {
		return o.deps.DiffSource.ChangedFiles(ctx, pr.BaseSHA, pr.HeadSHA)
	}
	return o.deps.Fetcher.ListFiles(ctx, owner, repo, prNumber)
}

// finish writes artifacts and the run-history record. Both are
// best-effort: a failed report never fails a run that already posted
// its review.
func (o *Orchestrator) finish(ctx context.Context, req Request, pr domain.PullRequest, result domain.RunResult, comments []domain.ReviewComment) {
	outputDir := o.deps.OutputDir
	if req.OutputDir != "" {
		outputDir = req.OutputDir
	}
	artifact := domain.RunArtifact{
		OutputDir:  outputDir,
		Repository: req.Repository,
		PRNumber:   req.PRNumber,
		HeadSHA:    pr.HeadSHA,
		Model:      result.Model,
		Result:     result,
		Comments:   comments,
	}

	for name, writer := range map[string]ArtifactWriter{"markdown": o.deps.Markdown, "json": o.deps.JSON} {
		if writer == nil {
			continue
		}
		if _, err := writer.Write(ctx, artifact); err != nil {
			o.logWarning(ctx, "failed to write run artifact", map[string]interface{}{
				"writer": name,
				"error":  err.Error(),
			})
		}
	}

	if o.deps.Store != nil {
		if err := o.deps.Store.RecordRun(ctx, req.Repository, req.PRNumber, pr.HeadSHA, result); err != nil {
			o.logWarning(ctx, "failed to record run history", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (o *Orchestrator) logDryRun(ctx context.Context, comments []domain.ReviewComment) {
	for _, c := range comments {
		o.logInfo(ctx, "dry run comment", map[string]interface{}{
			"path": c.Path,
			"line": c.Line,
			"side": c.Side,
			"body": c.Body,
		})
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
	}
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
	}
}

// dropDuplicates removes candidates whose fingerprint matches a comment
// this bot already posted on the PR.
func dropDuplicates(candidates []domain.ReviewComment, posted map[string]bool) ([]domain.ReviewComment, int) {
	if len(posted) == 0 {
		return candidates, 0
	}

	var kept []domain.ReviewComment
	dropped := 0
	for _, c := range candidates {
		if posted[c.Fingerprint()] {
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

func outcomeFor(posted int) domain.Outcome {
	if posted == 0 {
		return domain.OutcomeApproved
	}
	return domain.OutcomeCommented
}

// classify maps transport errors onto the run's error taxonomy so the
// CLI can report auth and missing-PR failures distinctly.
func classify(op string, err error) error {
	var kinded *domain.Error
	if errors.As(err, &kinded) {
		return err
	}

	var apiErr *llmhttp.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Type {
		case llmhttp.ErrTypeAuthentication:
			return domain.NewError(domain.KindAuth, op, err)
		case llmhttp.ErrTypeNotFound:
			return domain.NewError(domain.KindNotFound, op, err)
		}
	}
	return err
}
