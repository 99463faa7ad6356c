package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prbot/prreview/internal/domain"
)

func TestReviewComment_FingerprintDeterministic(t *testing.T) {
	c := domain.ReviewComment{Path: "a.py", Line: 10, Side: domain.SideRight, Body: "use a constant"}

	first := c.Fingerprint()
	second := c.Fingerprint()

	if first != second {
		t.Fatalf("fingerprint not deterministic: %q vs %q", first, second)
	}
	if len(first) != 16 {
		t.Fatalf("fingerprint length = %d, want 16", len(first))
	}
}

func TestReviewComment_FingerprintVariesByAnchor(t *testing.T) {
	base := domain.ReviewComment{Path: "a.py", Line: 10, Side: domain.SideRight, Body: "x"}

	variants := []domain.ReviewComment{
		{Path: "b.py", Line: 10, Side: domain.SideRight, Body: "x"},
		{Path: "a.py", Line: 11, Side: domain.SideRight, Body: "x"},
		{Path: "a.py", Line: 10, Side: domain.SideLeft, Body: "x"},
		{Path: "a.py", Line: 10, Side: domain.SideRight, Body: "y"},
	}

	for i, v := range variants {
		if v.Fingerprint() == base.Fingerprint() {
			t.Errorf("variant %d collided with base fingerprint", i)
		}
	}
}

func TestRunResult_String(t *testing.T) {
	tests := []struct {
		result domain.RunResult
		want   string
	}{
		{domain.RunResult{Outcome: domain.OutcomeApproved}, "approved"},
		{domain.RunResult{Outcome: domain.OutcomeCommented, CommentsPosted: 3}, "comments posted(3)"},
		{domain.RunResult{Outcome: domain.OutcomeSkipped}, "skipped (head commit already reviewed)"},
	}

	for _, tt := range tests {
		if got := tt.result.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_KindMatching(t *testing.T) {
	inner := fmt.Errorf("401 from API")
	err := domain.NewError(domain.KindAuth, "fetch pull request", inner)

	wrapped := fmt.Errorf("run failed: %w", err)

	if !errors.Is(wrapped, &domain.Error{Kind: domain.KindAuth}) {
		t.Fatal("expected errors.Is to match on KindAuth")
	}
	if errors.Is(wrapped, &domain.Error{Kind: domain.KindNotFound}) {
		t.Fatal("did not expect match on KindNotFound")
	}
	if got := domain.KindOf(wrapped); got != domain.KindAuth {
		t.Fatalf("KindOf = %v, want KindAuth", got)
	}
	if !errors.Is(wrapped, inner) {
		t.Fatal("expected unwrap chain to reach inner error")
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if got := domain.KindOf(errors.New("boom")); got != domain.KindUnknown {
		t.Fatalf("KindOf(plain) = %v, want KindUnknown", got)
	}
}
