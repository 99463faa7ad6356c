// Package github is an HTTP client for the GitHub Pull Request APIs.
//
// This adapter layer handles GitHub-specific concerns without polluting the
// domain layer. Key types include:
//
//   - PositionedComment: Wraps domain.ReviewComment with GitHub diff position
//   - MapComments: Resolves candidate comments to diff positions for inline
//     review comments, dropping the ones outside the diff
//
// The design keeps the domain layer pure and platform-agnostic, enabling
// future support for GitLab, Bitbucket, or other platforms.
package github
