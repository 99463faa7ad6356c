// Package skip detects opt-out triggers that let authors bypass the
// automated review by marking a pull request or commit message.
package skip

import (
	"regexp"
	"strings"
)

// skipTriggerPattern matches [skip review] or [skip-review] (case-insensitive).
var skipTriggerPattern = regexp.MustCompile(`(?i)\[skip[ -]review\]`)

// ContainsTrigger reports whether text contains a skip trigger.
// Supported patterns:
//   - [skip review]
//   - [skip-review]
//
// Matching is case-insensitive.
func ContainsTrigger(text string) bool {
	return skipTriggerPattern.MatchString(text)
}

// CheckRequest contains the inputs to check for skip triggers.
type CheckRequest struct {
	CommitMessages []string
	PRTitle        string
	PRBody         string
}

// CheckResult reports whether a trigger was found and where.
type CheckResult struct {
	ShouldSkip bool
	Reason     string // "commit message", "PR title", or "PR body"
}

// Check examines commit messages and PR metadata in order and returns
// the first trigger found.
func Check(req CheckRequest) CheckResult {
	for _, msg := range req.CommitMessages {
		if ContainsTrigger(msg) {
			return CheckResult{ShouldSkip: true, Reason: "commit message"}
		}
	}

	if ContainsTrigger(strings.TrimSpace(req.PRTitle)) {
		return CheckResult{ShouldSkip: true, Reason: "PR title"}
	}

	if ContainsTrigger(req.PRBody) {
		return CheckResult{ShouldSkip: true, Reason: "PR body"}
	}

	return CheckResult{}
}
