package diff

import (
	"strconv"
	"strings"
)

// LineType represents the type of a line in a diff.
type LineType int

const (
	// LineContext is an unchanged line (prefixed with ' ').
	LineContext LineType = iota
	// LineAddition is an added line (prefixed with '+').
	LineAddition
	// LineDeletion is a deleted line (prefixed with '-').
	LineDeletion
)

// Line is a single line within a hunk.
type Line struct {
	Type     LineType
	Content  string // without the prefix character
	OldLine  *int   // line number in the old file, nil for additions
	NewLine  *int   // line number in the new file, nil for deletions
	Position int    // 1-indexed position in the file's diff
}

// Hunk is one @@ block of a unified diff.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// FilePatch is the parsed diff of a single file.
type FilePatch struct {
	Hunks []Hunk
}

// Parse parses the unified diff of one file, tolerating git file headers.
func Parse(patch string) (FilePatch, error) {
	if patch == "" {
		return FilePatch{}, nil
	}

	var result FilePatch
	var current *Hunk
	position := 0
	oldLine := 0
	newLine := 0

	for _, raw := range strings.Split(patch, "\n") {
		switch {
		case raw == "":
			continue
		case strings.HasPrefix(raw, "diff --git"),
			strings.HasPrefix(raw, "index "),
			strings.HasPrefix(raw, "--- "),
			strings.HasPrefix(raw, "+++ "),
			strings.HasPrefix(raw, "\\ "):
			continue
		case strings.HasPrefix(raw, "@@"):
			if current != nil {
				result.Hunks = append(result.Hunks, *current)
				// Positions keep counting across hunks, and every @@
				// header after the first occupies a position of its own.
				position++
			}
			hunk := parseHunkHeader(raw)
			current = &hunk
			oldLine = hunk.OldStart
			newLine = hunk.NewStart
			continue
		}

		if current == nil {
			continue
		}

		position++
		line := Line{Position: position}

		switch raw[0] {
		case '+':
			line.Type = LineAddition
			line.Content = raw[1:]
			line.NewLine = intPtr(newLine)
			newLine++
		case '-':
			line.Type = LineDeletion
			line.Content = raw[1:]
			line.OldLine = intPtr(oldLine)
			oldLine++
		case ' ':
			line.Type = LineContext
			line.Content = raw[1:]
			line.OldLine = intPtr(oldLine)
			line.NewLine = intPtr(newLine)
			oldLine++
			newLine++
		default:
			// Some diffs omit the space prefix on context lines.
			line.Type = LineContext
			line.Content = raw
			line.OldLine = intPtr(oldLine)
			line.NewLine = intPtr(newLine)
			oldLine++
			newLine++
		}

		current.Lines = append(current.Lines, line)
	}

	if current != nil {
		result.Hunks = append(result.Hunks, *current)
	}

	return result, nil
}

// FindPositionRight returns the diff position for a new-side line number,
// or nil when the line is not an addable RIGHT position (deleted lines,
// regions outside any hunk).
func (fp FilePatch) FindPositionRight(newLineNumber int) *int {
	if newLineNumber <= 0 {
		return nil
	}
	for _, hunk := range fp.Hunks {
		for _, line := range hunk.Lines {
			if line.NewLine != nil && *line.NewLine == newLineNumber {
				return intPtr(line.Position)
			}
		}
	}
	return nil
}

// FindPositionLeft returns the diff position for an old-side line number.
// Only deleted lines count: a context line is anchored on the RIGHT side.
func (fp FilePatch) FindPositionLeft(oldLineNumber int) *int {
	if oldLineNumber <= 0 {
		return nil
	}
	for _, hunk := range fp.Hunks {
		for _, line := range hunk.Lines {
			if line.Type == LineDeletion && line.OldLine != nil && *line.OldLine == oldLineNumber {
				return intPtr(line.Position)
			}
		}
	}
	return nil
}

// AddableRight returns the set of new-side line numbers that can carry an
// inline comment.
func (fp FilePatch) AddableRight() map[int]bool {
	addable := make(map[int]bool)
	for _, hunk := range fp.Hunks {
		for _, line := range hunk.Lines {
			if line.NewLine != nil {
				addable[*line.NewLine] = true
			}
		}
	}
	return addable
}

// parseHunkHeader parses "@@ -10,7 +10,8 @@ optional context".
// Malformed ranges fall back to zero values rather than failing the parse.
func parseHunkHeader(line string) Hunk {
	hunk := Hunk{}
	parts := strings.Split(line, "@@")
	if len(parts) < 2 {
		return hunk
	}

	for _, field := range strings.Fields(strings.TrimSpace(parts[1])) {
		switch {
		case strings.HasPrefix(field, "-"):
			hunk.OldStart, hunk.OldLines = parseRange(strings.TrimPrefix(field, "-"))
		case strings.HasPrefix(field, "+"):
			hunk.NewStart, hunk.NewLines = parseRange(strings.TrimPrefix(field, "+"))
		}
	}
	return hunk
}

// parseRange parses "start,count" or "start".
func parseRange(s string) (start, count int) {
	if idx := strings.Index(s, ","); idx >= 0 {
		start, _ = strconv.Atoi(s[:idx])
		count, _ = strconv.Atoi(s[idx+1:])
		return start, count
	}
	start, _ = strconv.Atoi(s)
	return start, 1
}

func intPtr(n int) *int {
	return &n
}
