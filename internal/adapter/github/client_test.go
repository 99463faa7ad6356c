package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmhttp "github.com/prbot/prreview/internal/adapter/llm/http"
	"github.com/prbot/prreview/internal/domain"
)

func newTestClient(serverURL string) *Client {
	client := NewClient("ghp_test")
	client.SetBaseURL(serverURL)
	client.SetInitialBackoff(time.Millisecond)
	return client
}

func TestGetPullRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/42", r.URL.Path)
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{
			"number": 42,
			"title": "Add widget cache",
			"body": "Caches widgets.",
			"user": {"login": "octocat"},
			"base": {"ref": "main", "sha": "base000"},
			"head": {"ref": "feature/cache", "sha": "head111"}
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	pr, err := client.GetPullRequest(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	assert.Equal(t, 42, pr.Number)
	assert.Equal(t, "Add widget cache", pr.Title)
	assert.Equal(t, "octocat", pr.Author)
	assert.Equal(t, "main", pr.BaseRef)
	assert.Equal(t, "head111", pr.HeadSHA)
}

func TestListFilesFollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"filename": "b.go", "status": "removed", "patch": "@@ -1 +0,0 @@\n-gone"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/widgets/pulls/42/files?page=2>; rel="next"`, server.URL))
		fmt.Fprint(w, `[{"filename": "a.go", "status": "added", "patch": "@@ -0,0 +1 @@\n+hello"}]`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	files, err := client.ListFiles(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].Path)
	assert.Equal(t, domain.FileStatusAdded, files[0].Status)
	assert.Equal(t, "b.go", files[1].Path)
	assert.Equal(t, domain.FileStatusDeleted, files[1].Status)
}

func TestListFilesMapsRenamed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"filename": "new.go", "previous_filename": "old.go", "status": "renamed", "patch": ""}]`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	files, err := client.ListFiles(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.go", files[0].Path)
	assert.Equal(t, "old.go", files[0].OldPath)
	assert.Equal(t, domain.FileStatusRenamed, files[0].Status)
}

func TestListReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/42/reviews", r.URL.Path)
		fmt.Fprint(w, `[
			{"id": 1, "user": {"login": "reviewbot"}, "state": "APPROVED", "commit_id": "head111"},
			{"id": 2, "user": {"login": "octocat"}, "state": "COMMENTED", "commit_id": "head111"}
		]`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reviews, err := client.ListReviews(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "reviewbot", reviews[0].User.Login)
	assert.Equal(t, ReviewStateApproved, reviews[0].State)
	assert.Equal(t, "head111", reviews[0].CommitID)
}

func TestCreateReview(t *testing.T) {
	var gotReq CreateReviewRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/widgets/pulls/42/reviews", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"id": 99, "state": "COMMENTED", "html_url": "https://github.com/acme/widgets/pull/42#pullrequestreview-99"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.CreateReview(context.Background(), CreateReviewInput{
		Owner:      "acme",
		Repo:       "widgets",
		PullNumber: 42,
		CommitSHA:  "head111",
		Event:      EventComment,
		Comments: []DraftReviewComment{
			{Path: "a.go", Position: 3, Body: "check this"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(99), resp.ID)
	assert.Equal(t, "head111", gotReq.CommitID)
	assert.Equal(t, EventComment, gotReq.Event)
	require.Len(t, gotReq.Comments, 1)
	assert.Equal(t, 3, gotReq.Comments[0].Position)
}

func TestCreateReviewApprove(t *testing.T) {
	var gotReq CreateReviewRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"id": 100, "state": "APPROVED"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateReview(context.Background(), CreateReviewInput{
		Owner:      "acme",
		Repo:       "widgets",
		PullNumber: 42,
		CommitSHA:  "head111",
		Event:      EventApprove,
		Body:       ApproveBody,
	})

	require.NoError(t, err)
	assert.Equal(t, EventApprove, gotReq.Event)
	assert.Equal(t, ApproveBody, gotReq.Body)
	assert.Empty(t, gotReq.Comments)
}

func TestCreateReviewComment(t *testing.T) {
	var gotReq createCommentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/42/comments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 7}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.CreateReviewComment(context.Background(), "acme", "widgets", 42, "head111", domain.ReviewComment{
		Path: "a.go",
		Line: 12,
		Side: domain.SideRight,
		Body: "needs a nil check",
	})

	require.NoError(t, err)
	assert.Equal(t, "a.go", gotReq.Path)
	assert.Equal(t, 12, gotReq.Line)
	assert.Equal(t, domain.SideRight, gotReq.Side)
	assert.Equal(t, "head111", gotReq.CommitID)
}

func TestAuthenticationErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetPullRequest(context.Background(), "acme", "widgets", 42)

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *llmhttp.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, llmhttp.ErrTypeAuthentication, apiErr.Type)
	assert.Contains(t, apiErr.Message, "Bad credentials")
}

func TestServerErrorRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"number": 42, "user": {}, "base": {}, "head": {}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	pr, err := client.GetPullRequest(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 42, pr.Number)
}

func TestParseNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "next and last",
			header: `<https://api.github.com/repos/a/b/pulls/1/files?page=2>; rel="next", <https://api.github.com/repos/a/b/pulls/1/files?page=5>; rel="last"`,
			want:   "https://api.github.com/repos/a/b/pulls/1/files?page=2",
		},
		{
			name:   "only prev",
			header: `<https://api.github.com/repos/a/b/pulls/1/files?page=1>; rel="prev"`,
			want:   "",
		},
		{name: "empty", header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNextLink(tt.header))
		})
	}
}
