// Package git computes pull request diffs from a local checkout instead
// of the GitHub files API. In Actions the checkout is already on disk,
// so this source avoids one round of API calls and its rate limits.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/prbot/prreview/internal/domain"
)

// LocalSource produces file diffs from a local git repository.
type LocalSource struct {
	repoDir string
}

// NewLocalSource constructs a diff source for the provided repository
// directory. The directory must contain both the base and head commits;
// a shallow Actions checkout needs fetch-depth: 0.
func NewLocalSource(repoDir string) *LocalSource {
	return &LocalSource{repoDir: repoDir}
}

// ChangedFiles computes the base..head diff and splits it per file.
func (s *LocalSource) ChangedFiles(ctx context.Context, baseRef, headRef string) ([]domain.FileDiff, error) {
	repo, err := goGit.PlainOpenWithOptions(s.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	baseCommit, err := resolveCommit(repo, baseRef)
	if err != nil {
		return nil, fmt.Errorf("resolve base ref: %w", err)
	}

	headCommit, err := resolveCommit(repo, headRef)
	if err != nil {
		return nil, fmt.Errorf("resolve head ref: %w", err)
	}

	patch, err := baseCommit.PatchContext(ctx, headCommit)
	if err != nil {
		return nil, fmt.Errorf("compute patch: %w", err)
	}

	files, err := splitPatch(patch.String())
	if err != nil {
		return nil, fmt.Errorf("split patch: %w", err)
	}
	return files, nil
}

// splitPatch parses a combined unified diff into per-file diffs with
// hunks-only patch text, matching what the GitHub files API returns.
func splitPatch(raw string) ([]domain.FileDiff, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	files := make([]domain.FileDiff, 0, len(parsed))
	for _, f := range parsed {
		fd := domain.FileDiff{
			Path:   f.NewName,
			Status: fileStatus(f),
		}
		switch {
		case f.IsDelete:
			fd.Path = f.OldName
		case f.IsRename:
			fd.OldPath = f.OldName
		}
		if !f.IsBinary {
			fd.Patch = fragmentsText(f)
		}
		files = append(files, fd)
	}
	return files, nil
}

func fileStatus(f *gitdiff.File) string {
	switch {
	case f.IsNew:
		return domain.FileStatusAdded
	case f.IsDelete:
		return domain.FileStatusDeleted
	case f.IsRename:
		return domain.FileStatusRenamed
	default:
		return domain.FileStatusModified
	}
}

// fragmentsText reassembles a file's hunks without the diff --git
// header lines.
func fragmentsText(f *gitdiff.File) string {
	var sb strings.Builder
	for _, frag := range f.TextFragments {
		sb.WriteString(frag.Header())
		sb.WriteString("\n")
		for _, line := range frag.Lines {
			sb.WriteString(line.String())
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}
