package review

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/prbot/prreview/internal/diff"
	"github.com/prbot/prreview/internal/domain"
)

// DefaultMaxFileDiffBytes caps how much of one file's annotated diff
// goes into the prompt. Oversized files are summarized instead so one
// generated bundle cannot crowd out the rest of the review.
const DefaultMaxFileDiffBytes = 10 * 1024

const oversizedDiffPlaceholder = "Diff: [Too Long]"

// promptTemplate frames the review request. The annotation legend tells
// the model how to read line numbers, which it needs to produce line
// references the comments API will accept.
const promptTemplate = `<coding-rules>
{{.Rules}}
</coding-rules>

<pr-title>
{{.Title}}
</pr-title>

<pr-body>
{{.Body}}
</pr-body>

<patch-diff>
_L13+ : This line was added in the PR._
_L13- : This line was removed in the PR._
_L13 : This line was unchanged in the PR._
{{.PatchText}}
</patch-diff>

<existing-comments>
{{.ExistingComments}}
</existing-comments>

Please raise new issues or suggestions according to the coding rules.`

// PromptBuilder renders pull request state into the review prompt.
type PromptBuilder struct {
	maxFileDiffBytes int
	tmpl             *template.Template
}

// NewPromptBuilder constructs a prompt builder. A non-positive byte cap
// falls back to DefaultMaxFileDiffBytes.
func NewPromptBuilder(maxFileDiffBytes int) *PromptBuilder {
	if maxFileDiffBytes <= 0 {
		maxFileDiffBytes = DefaultMaxFileDiffBytes
	}
	return &PromptBuilder{
		maxFileDiffBytes: maxFileDiffBytes,
		tmpl:             template.Must(template.New("prompt").Parse(promptTemplate)),
	}
}

type promptData struct {
	Rules            string
	Title            string
	Body             string
	PatchText        string
	ExistingComments string
}

// Build renders the full user prompt.
func (b *PromptBuilder) Build(pr domain.PullRequest, files []domain.FileDiff, rules, existingComments string) (string, error) {
	var buf bytes.Buffer
	err := b.tmpl.Execute(&buf, promptData{
		Rules:            rules,
		Title:            pr.Title,
		Body:             pr.Body,
		PatchText:        b.renderPatches(files),
		ExistingComments: existingComments,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// renderPatches annotates every file's diff with file line numbers.
func (b *PromptBuilder) renderPatches(files []domain.FileDiff) string {
	var sections []string
	for _, f := range files {
		sections = append(sections, "File: "+f.Path)

		if f.Patch == "" {
			continue
		}
		annotated, err := annotateDiff(f.Patch)
		if err != nil {
			continue
		}
		if len(annotated) > b.maxFileDiffBytes {
			sections = append(sections, oversizedDiffPlaceholder)
			continue
		}
		sections = append(sections, annotated)
	}
	return strings.Join(sections, "\n")
}

// annotateDiff rewrites a unified diff into one line per changed line,
// prefixed with its file line number: "L13+ :" added, "L13- :" removed,
// "L13 :" unchanged. Added lines carry new-file numbers, removed and
// context lines carry old-file numbers.
func annotateDiff(patch string) (string, error) {
	parsed, err := diff.Parse(patch)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, hunk := range parsed.Hunks {
		for _, line := range hunk.Lines {
			content := strings.TrimRight(line.Content, "\n")
			switch line.Type {
			case diff.LineAddition:
				lines = append(lines, fmt.Sprintf("L%d+ : %s", *line.NewLine, content))
			case diff.LineDeletion:
				lines = append(lines, fmt.Sprintf("L%d- : %s", *line.OldLine, content))
			default:
				lines = append(lines, fmt.Sprintf("L%d : %s", *line.OldLine, content))
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// BuildSystemPrompt assembles the model's instructions. Custom
// instructions from configuration are appended after the built-in ones,
// so they can tighten or redirect the review without replacing the
// output contract.
func BuildSystemPrompt(now time.Time, custom string) string {
	var sb strings.Builder
	sb.WriteString("Today's date is ")
	sb.WriteString(now.Format("January 02, 2006"))
	sb.WriteString(".\n")
	sb.WriteString("You are a code reviewer. Your goal is to raise new issues or suggestions for the code changes.\n")
	sb.WriteString("- Review the code changes according to the coding rules.\n")
	sb.WriteString("- Suggest a better data structure, algorithm or strategy.\n")
	sb.WriteString("- Verify the implementation satisfies requirements.\n")
	sb.WriteString("- Find bugs and inconsistencies.\n")
	sb.WriteString("- Do not make duplicated or similar comments.\n")
	sb.WriteString("- Do not reply to the existing comments.\n")
	sb.WriteString("If there are no new issues or suggestions, leave no comments.\n")
	sb.WriteString(custom)
	return sb.String()
}
