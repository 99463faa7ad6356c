package config

import (
	"fmt"
	"strings"
)

// Config represents the full application configuration.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github"`
	LLM     LLMConfig     `yaml:"llm"`
	Review  ReviewConfig  `yaml:"review"`
	Diff    DiffConfig    `yaml:"diff"`
	HTTP    HTTPConfig    `yaml:"http"`
	Output  OutputConfig  `yaml:"output"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// GitHubConfig configures access to the GitHub API.
type GitHubConfig struct {
	// Token authenticates API calls. In Actions this is GITHUB_TOKEN.
	Token string `yaml:"token"`

	// Repository is the owner/name slug of the repository under review.
	Repository string `yaml:"repository"`

	// BaseURL overrides the API endpoint for GitHub Enterprise.
	BaseURL string `yaml:"baseURL"`

	// BotUsername is the login the bot posts under, used to recognize
	// its own past reviews. Defaults to the Actions bot account.
	BotUsername string `yaml:"botUsername"`
}

// Owner returns the repository owner part of the slug.
func (g GitHubConfig) Owner() string {
	owner, _, _ := strings.Cut(g.Repository, "/")
	return owner
}

// Name returns the repository name part of the slug.
func (g GitHubConfig) Name() string {
	_, name, _ := strings.Cut(g.Repository, "/")
	return name
}

// LLMConfig configures the review model provider.
type LLMConfig struct {
	// Provider selects the backend: "openai" or "static".
	Provider string `yaml:"provider"`

	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseURL"`

	// MaxInputTokens bounds the estimated prompt size. Prompts over the
	// bound fail the run instead of being silently truncated.
	MaxInputTokens int `yaml:"maxInputTokens"`

	// MaxOutputTokens caps the model's completion length.
	MaxOutputTokens int `yaml:"maxOutputTokens"`
}

// ReviewConfig configures the review behavior.
type ReviewConfig struct {
	// SystemPrompt replaces the built-in review instructions when set.
	SystemPrompt string `yaml:"systemPrompt"`

	// RulesPath is the coding guidelines document, relative to the
	// repository root. Defaults to .github/AGENTS.md.
	RulesPath string `yaml:"rulesPath"`

	// MaxFileDiffBytes caps how much of one file's diff goes into the
	// prompt. Larger diffs are replaced with a placeholder.
	MaxFileDiffBytes int `yaml:"maxFileDiffBytes"`

	// RedactSecrets scrubs credential-shaped strings from the prompt
	// before it is sent to the model.
	RedactSecrets bool `yaml:"redactSecrets"`
}

// DiffConfig selects where file diffs come from.
type DiffConfig struct {
	// Source is "api" (GitHub files endpoint) or "git" (local checkout).
	Source string `yaml:"source"`

	// RepositoryDir is the local checkout used by the git source and
	// the rules loader.
	RepositoryDir string `yaml:"repositoryDir"`
}

// HTTPConfig holds shared HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// OutputConfig configures run artifact writers.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// StoreConfig configures the optional run-history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures request/response logging.
type LoggingConfig struct {
	Level         string `yaml:"level"`  // debug, info, error
	Format        string `yaml:"format"` // json, human, or auto (human on a TTY)
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}

// Validate checks that the configuration can drive a review run.
func (c Config) Validate() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("github token is required (set GITHUB_TOKEN)")
	}
	if c.GitHub.Repository == "" || !strings.Contains(c.GitHub.Repository, "/") {
		return fmt.Errorf("github repository must be owner/name, got %q", c.GitHub.Repository)
	}
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm apiKey is required (set OPENAI_API_KEY)")
		}
	case "static":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Diff.Source {
	case "api", "git":
	default:
		return fmt.Errorf("diff source must be api or git, got %q", c.Diff.Source)
	}
	return nil
}
