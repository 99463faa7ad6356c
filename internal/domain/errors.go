package domain

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures. Every fatal error surfaced by a run
// carries exactly one kind so the entrypoint can report it consistently.
type Kind int

const (
	KindUnknown Kind = iota

	// KindAuth means the hosting platform or model API rejected the credentials.
	KindAuth

	// KindNotFound means the PR (or another required remote resource) does not exist.
	KindNotFound

	// KindPayloadTooLarge means the assembled prompt exceeds the model input limit.
	KindPayloadTooLarge

	// KindMalformedResponse means the model output failed schema validation
	// after the single re-ask.
	KindMalformedResponse

	// KindCommentPost means posting an individual comment failed. Recovered
	// locally; it only becomes fatal when the review submission itself fails.
	KindCommentPost
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth error"
	case KindNotFound:
		return "not found"
	case KindPayloadTooLarge:
		return "payload too large"
	case KindMalformedResponse:
		return "malformed response"
	case KindCommentPost:
		return "comment post error"
	default:
		return "error"
	}
}

// Error is a classified pipeline error.
type Error struct {
	Kind Kind
	Op   string // pipeline stage, e.g. "collect diff"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so callers can test errors.Is(err, &Error{Kind: KindAuth}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError wraps err with a kind and the pipeline stage it came from.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the kind from err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
