package main

import (
	"testing"
	"time"

	llmhttp "github.com/prbot/prreview/internal/adapter/llm/http"
	"github.com/prbot/prreview/internal/adapter/llm/openai"
	"github.com/prbot/prreview/internal/adapter/llm/static"
	"github.com/prbot/prreview/internal/config"
)

func TestBuildProvider(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.Config
		wantErr      bool
		wantProvider string // "openai", "static"
	}{
		{
			name: "openai provider",
			cfg: config.Config{
				LLM: config.LLMConfig{Provider: "openai", APIKey: "test-key", Model: "o3"},
			},
			wantProvider: "openai",
		},
		{
			name: "static provider",
			cfg: config.Config{
				LLM: config.LLMConfig{Provider: "static"},
			},
			wantProvider: "static",
		},
		{
			name: "unknown provider",
			cfg: config.Config{
				LLM: config.LLMConfig{Provider: "bedrock"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildProvider(tt.cfg, 30*time.Second, llmhttp.DefaultRetryConfig(), nil)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("buildProvider() expected error, got %T", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildProvider() unexpected error: %v", err)
			}

			switch tt.wantProvider {
			case "openai":
				if _, ok := got.(*openai.HTTPClient); !ok {
					t.Errorf("buildProvider() = %T, want *openai.HTTPClient", got)
				}
			case "static":
				if _, ok := got.(*static.Provider); !ok {
					t.Errorf("buildProvider() = %T, want *static.Provider", got)
				}
			}
		})
	}
}

func TestResolveLogFormatPinned(t *testing.T) {
	if got := resolveLogFormat("json"); got != llmhttp.LogFormatJSON {
		t.Errorf("resolveLogFormat(json) = %v, want JSON", got)
	}
	if got := resolveLogFormat("human"); got != llmhttp.LogFormatHuman {
		t.Errorf("resolveLogFormat(human) = %v, want human", got)
	}
}

func TestEnvPRNumber(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"17", 17},
		{"", 0},
		{"zero", 0},
		{"-3", 0},
	}

	for _, tt := range tests {
		t.Setenv("PR_NUMBER", tt.value)
		if got := envPRNumber(); got != tt.want {
			t.Errorf("envPRNumber() with PR_NUMBER=%q = %d, want %d", tt.value, got, tt.want)
		}
	}
}
