// Package observability provides the structured run logger used by the
// review orchestrator, in the same format as the LLM API call logs.
package observability

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"

	llmhttp "github.com/prbot/prreview/internal/adapter/llm/http"
	"github.com/prbot/prreview/internal/usecase/review"
)

// ReviewLogger implements review.Logger on top of the standard logger,
// matching the level and format settings of the API call logs.
type ReviewLogger struct {
	level  llmhttp.LogLevel
	format llmhttp.LogFormat
}

// NewReviewLogger creates a run logger with the given level and format.
func NewReviewLogger(level llmhttp.LogLevel, format llmhttp.LogFormat) review.Logger {
	return &ReviewLogger{level: level, format: format}
}

// LogWarning logs a warning message with structured fields.
func (l *ReviewLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.write("warning", "[WARN]", message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *ReviewLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > llmhttp.LogLevelInfo {
		return
	}
	l.write("info", "[INFO]", message, fields)
}

func (l *ReviewLogger) write(level, prefix, message string, fields map[string]interface{}) {
	if l.format == llmhttp.LogFormatJSON {
		entry := map[string]interface{}{"level": level, "message": message}
		for k, v := range fields {
			entry[k] = v
		}
		encoded, err := json.Marshal(entry)
		if err != nil {
			log.Printf("%s %s", prefix, message)
			return
		}
		log.Print(string(encoded))
		return
	}

	if len(fields) == 0 {
		log.Printf("%s %s", prefix, message)
		return
	}
	log.Printf("%s %s (%s)", prefix, message, formatFields(fields))
}

func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+toString(fields[k]))
	}
	return strings.Join(parts, " ")
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "?"
		}
		return string(encoded)
	}
}
