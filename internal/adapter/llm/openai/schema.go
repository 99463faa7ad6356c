package openai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/prbot/prreview/internal/domain"
)

// reviewSchema is the JSON schema the model must satisfy. It mirrors the
// GitHub review comment shape: file path, 1-based line number, comment
// body, and which side of the diff the line lives on.
func reviewSchema() *JSONSchema {
	return &JSONSchema{
		Name:   "ReviewComments",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"comments": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"path": map[string]any{
								"type":        "string",
								"description": "Path of the file the comment applies to",
							},
							"line": map[string]any{
								"type":        "integer",
								"description": "Line number within the file",
							},
							"body": map[string]any{
								"type":        "string",
								"description": "The review comment text",
							},
							"side": map[string]any{
								"type":        "string",
								"enum":        []string{"LEFT", "RIGHT"},
								"description": "LEFT for a deleted line, RIGHT for an added or unchanged line",
							},
						},
						"additionalProperties": false,
						"required":             []string{"path", "line", "body", "side"},
					},
				},
			},
			"additionalProperties": false,
			"required":             []string{"comments"},
		},
	}
}

// parseComments validates the raw model output against the expected shape.
// Unknown fields and out-of-range values are rejected rather than coerced:
// a response that drifts from the schema triggers the re-ask path.
func parseComments(raw string) ([]domain.ReviewComment, error) {
	var envelope struct {
		Comments []domain.ReviewComment `json:"comments"`
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode review comments: %w", err)
	}

	for i, c := range envelope.Comments {
		if c.Path == "" {
			return nil, fmt.Errorf("comment %d: empty path", i)
		}
		if c.Line < 1 {
			return nil, fmt.Errorf("comment %d: line %d is not 1-based", i, c.Line)
		}
		if c.Side != domain.SideLeft && c.Side != domain.SideRight {
			return nil, fmt.Errorf("comment %d: side %q is not LEFT or RIGHT", i, c.Side)
		}
		if c.Body == "" {
			return nil, fmt.Errorf("comment %d: empty body", i)
		}
	}

	return envelope.Comments, nil
}
