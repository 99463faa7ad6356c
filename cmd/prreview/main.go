package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/prbot/prreview/internal/adapter/cli"
	"github.com/prbot/prreview/internal/adapter/git"
	githubadapter "github.com/prbot/prreview/internal/adapter/github"
	llmhttp "github.com/prbot/prreview/internal/adapter/llm/http"
	"github.com/prbot/prreview/internal/adapter/llm/openai"
	"github.com/prbot/prreview/internal/adapter/llm/static"
	"github.com/prbot/prreview/internal/adapter/observability"
	"github.com/prbot/prreview/internal/adapter/output/json"
	"github.com/prbot/prreview/internal/adapter/output/markdown"
	"github.com/prbot/prreview/internal/adapter/rules"
	"github.com/prbot/prreview/internal/adapter/store/sqlite"
	"github.com/prbot/prreview/internal/config"
	"github.com/prbot/prreview/internal/redaction"
	usecasegithub "github.com/prbot/prreview/internal/usecase/github"
	"github.com/prbot/prreview/internal/usecase/review"
	"github.com/prbot/prreview/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "prreview",
		EnvPrefix:   "PRR",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	logLevel := llmhttp.ParseLogLevel(cfg.Logging.Level)
	logFormat := resolveLogFormat(cfg.Logging.Format)
	apiLogger := llmhttp.NewDefaultLogger(logLevel, logFormat, cfg.Logging.RedactAPIKeys)
	reviewLogger := observability.NewReviewLogger(logLevel, logFormat)

	httpTimeout := llmhttp.ParseTimeout(cfg.HTTP.Timeout, 120*time.Second)
	retryConf := llmhttp.BuildRetryConfig(cfg.HTTP.MaxRetries, cfg.HTTP.InitialBackoff, cfg.HTTP.MaxBackoff, cfg.HTTP.BackoffMultiplier)

	githubClient := githubadapter.NewClient(cfg.GitHub.Token)
	if cfg.GitHub.BaseURL != "" {
		githubClient.SetBaseURL(cfg.GitHub.BaseURL)
	}
	githubClient.SetTimeout(httpTimeout)
	githubClient.SetMaxRetries(retryConf.MaxRetries)
	githubClient.SetInitialBackoff(retryConf.InitialBackoff)

	provider, err := buildProvider(cfg, httpTimeout, retryConf, apiLogger)
	if err != nil {
		return err
	}

	var diffSource review.DiffSource
	if cfg.Diff.Source == "git" {
		diffSource = git.NewLocalSource(cfg.Diff.RepositoryDir)
	}

	// Timestamp function for output file naming
	nowFunc := func() string {
		return time.Now().UTC().Format("20060102T150405Z")
	}

	deps := review.OrchestratorDeps{
		Fetcher:         githubClient,
		DiffSource:      diffSource,
		Rules:           rules.NewLoader(cfg.Diff.RepositoryDir, cfg.Review.RulesPath),
		Provider:        provider,
		Poster:          usecasegithub.NewReviewPoster(githubClient, cfg.GitHub.BotUsername, reviewLogger),
		PromptBuilder:   review.NewPromptBuilder(cfg.Review.MaxFileDiffBytes),
		Markdown:        markdown.NewWriter(nowFunc),
		JSON:            json.NewWriter(nowFunc),
		Logger:          reviewLogger,
		SystemPrompt:    cfg.Review.SystemPrompt,
		MaxInputTokens:  cfg.LLM.MaxInputTokens,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		OutputDir:       cfg.Output.Directory,
	}

	if cfg.Review.RedactSecrets {
		deps.Redactor = redaction.NewEngine()
	}

	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			runStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				deps.Store = runStore
				defer runStore.Close()
			}
		}
	}

	orchestrator := review.NewOrchestrator(deps)

	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer:          orchestrator,
		DefaultRepository: cfg.GitHub.Repository,
		DefaultPRNumber:   envPRNumber(),
		DefaultOutput:     cfg.Output.Directory,
		Version:           version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func buildProvider(cfg config.Config, timeout time.Duration, retryConf llmhttp.RetryConfig, logger llmhttp.Logger) (review.Provider, error) {
	switch cfg.LLM.Provider {
	case "openai":
		client := openai.NewHTTPClient(cfg.LLM.APIKey, cfg.LLM.Model)
		if cfg.LLM.BaseURL != "" {
			client.SetBaseURL(cfg.LLM.BaseURL)
		}
		client.SetTimeout(timeout)
		client.SetRetryConfig(retryConf)
		client.SetLogger(logger)
		return client, nil
	case "static":
		return static.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// resolveLogFormat picks human-readable logs on a terminal and JSON
// lines in CI, unless the config pins a format.
func resolveLogFormat(format string) llmhttp.LogFormat {
	switch format {
	case "json":
		return llmhttp.LogFormatJSON
	case "human":
		return llmhttp.LogFormatHuman
	default:
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return llmhttp.LogFormatHuman
		}
		return llmhttp.LogFormatJSON
	}
}

// envPRNumber reads the PR number an Actions workflow passes via the
// PR_NUMBER environment variable.
func envPRNumber() int {
	raw := os.Getenv("PR_NUMBER")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("warning: ignoring invalid PR_NUMBER %q", raw)
		return 0
	}
	return n
}

// Compile-time interface compliance checks
var _ review.Fetcher = (*githubadapter.Client)(nil)
var _ usecasegithub.ReviewClient = (*githubadapter.Client)(nil)
var _ review.Provider = (*openai.HTTPClient)(nil)
var _ review.Provider = (*static.Provider)(nil)
var _ review.DiffSource = (*git.LocalSource)(nil)
var _ review.Redactor = (*redaction.Engine)(nil)
var _ review.ArtifactWriter = (*markdown.Writer)(nil)
var _ review.ArtifactWriter = (*json.Writer)(nil)
var _ review.HistoryStore = (*sqlite.Store)(nil)

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "prreview"))
	}
	return paths
}
