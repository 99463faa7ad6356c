// Package json persists review run artifacts as JSON files.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prbot/prreview/internal/domain"
)

// Writer persists run artifacts to disk as JSON files.
type Writer struct {
	now func() string
}

// NewWriter creates a new JSON writer.
func NewWriter(now func() string) *Writer {
	return &Writer{now: now}
}

// runRecord is the serialized form of a run artifact.
type runRecord struct {
	Repository      string                 `json:"repository"`
	PRNumber        int                    `json:"prNumber"`
	HeadSHA         string                 `json:"headSha"`
	Model           string                 `json:"model"`
	Outcome         string                 `json:"outcome"`
	CommentsPosted  int                    `json:"commentsPosted"`
	CommentsDropped int                    `json:"commentsDropped"`
	ReviewURL       string                 `json:"reviewUrl,omitempty"`
	Cost            float64                `json:"cost"`
	Comments        []domain.ReviewComment `json:"comments"`
}

// Write persists a run artifact to disk as a JSON file.
func (w *Writer) Write(ctx context.Context, artifact domain.RunArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(artifact.OutputDir, fmt.Sprintf("review-%s.json", w.now()))

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create json file: %w", err)
	}
	defer file.Close()

	record := runRecord{
		Repository:      artifact.Repository,
		PRNumber:        artifact.PRNumber,
		HeadSHA:         artifact.HeadSHA,
		Model:           artifact.Model,
		Outcome:         string(artifact.Result.Outcome),
		CommentsPosted:  artifact.Result.CommentsPosted,
		CommentsDropped: artifact.Result.CommentsDropped,
		ReviewURL:       artifact.Result.ReviewURL,
		Cost:            artifact.Result.Cost,
		Comments:        artifact.Comments,
	}
	if record.Comments == nil {
		record.Comments = []domain.ReviewComment{}
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return "", fmt.Errorf("failed to encode run record to json: %w", err)
	}

	return filePath, nil
}
