// Package markdown renders review run artifacts as Markdown files,
// suitable for uploading from CI as build artifacts.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prbot/prreview/internal/domain"
)

type clock func() string

// Writer renders run artifacts into Markdown files.
type Writer struct {
	now clock
}

// NewWriter constructs a Markdown writer with a timestamp supplier.
func NewWriter(now clock) *Writer {
	return &Writer{now: now}
}

// Write persists a Markdown artifact to disk.
func (w *Writer) Write(ctx context.Context, artifact domain.RunArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s_pr%d_%s.md",
		sanitise(artifact.Repository),
		artifact.PRNumber,
		w.now(),
	)
	path := filepath.Join(artifact.OutputDir, filename)

	content := buildContent(artifact)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

func buildContent(artifact domain.RunArtifact) string {
	var builder strings.Builder
	builder.WriteString("# Pull Request Review Report\n\n")
	builder.WriteString(fmt.Sprintf("- Repository: %s\n", artifact.Repository))
	builder.WriteString(fmt.Sprintf("- Pull request: #%d\n", artifact.PRNumber))
	builder.WriteString(fmt.Sprintf("- Head commit: %s\n", artifact.HeadSHA))
	builder.WriteString(fmt.Sprintf("- Model: %s\n", artifact.Model))
	builder.WriteString(fmt.Sprintf("- Outcome: %s\n", artifact.Result))
	builder.WriteString(fmt.Sprintf("- Cost: $%.4f\n\n", artifact.Result.Cost))

	if len(artifact.Comments) == 0 {
		builder.WriteString("No comments posted.\n")
		return builder.String()
	}

	builder.WriteString("## Comments\n\n")
	for _, c := range artifact.Comments {
		builder.WriteString(fmt.Sprintf("### %s:%d (%s)\n\n", c.Path, c.Line, c.Side))
		builder.WriteString(c.Body)
		builder.WriteString("\n\n")
	}

	if artifact.Result.CommentsDropped > 0 {
		builder.WriteString(fmt.Sprintf("%d comment(s) were dropped during diff validation.\n",
			artifact.Result.CommentsDropped))
	}

	return builder.String()
}

func sanitise(value string) string {
	if value == "" {
		return "unknown"
	}
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, string(filepath.Separator), "-")
	value = strings.ReplaceAll(value, " ", "-")
	return value
}
