package github

import (
	"github.com/prbot/prreview/internal/diff"
	"github.com/prbot/prreview/internal/domain"
)

// PositionedComment wraps a domain.ReviewComment with its GitHub diff
// position. This type lives in the adapter layer to keep the domain
// layer pure and platform-agnostic.
type PositionedComment struct {
	Comment domain.ReviewComment

	// Position is the comment's line index within the unified diff,
	// 1-indexed from the line below the first @@ hunk header.
	Position int
}

// MapComments resolves candidate comments to diff positions. A comment
// on a RIGHT-side line must hit an added or context line of its file's
// diff; a LEFT-side comment must hit a deleted line. Comments on files
// or lines outside the diff are returned in dropped and never posted.
//
// This function is pure and does not modify the input comments.
func MapComments(candidates []domain.ReviewComment, files []domain.FileDiff) (positioned []PositionedComment, dropped []domain.ReviewComment) {
	if len(candidates) == 0 {
		return nil, nil
	}

	parsed := make(map[string]diff.FilePatch, len(files))
	for _, f := range files {
		if f.Patch == "" {
			continue
		}
		fp, err := diff.Parse(f.Patch)
		if err != nil {
			// Skip files with unparseable diffs
			continue
		}
		parsed[f.Path] = fp
	}

	for _, c := range candidates {
		fp, ok := parsed[c.Path]
		if !ok {
			dropped = append(dropped, c)
			continue
		}

		var pos *int
		if c.Side == domain.SideLeft {
			pos = fp.FindPositionLeft(c.Line)
		} else {
			pos = fp.FindPositionRight(c.Line)
		}
		if pos == nil {
			dropped = append(dropped, c)
			continue
		}

		positioned = append(positioned, PositionedComment{Comment: c, Position: *pos})
	}

	return positioned, dropped
}
