package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agrumas/gh-ranker/logger"
)

func init() {
	// Initialize logger for tests
	_ = logger.Initialize("debug")
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClientWithBaseURL("test-token", server.URL)
	require.NoError(t, err)
	return client, server
}

func TestFetchRepository(t *testing.T) {
	testCases := []struct {
		name           string
		mockStatusCode int
		mockBody       any
		expectedError  bool
	}{
		{
			name:           "successful fetch",
			mockStatusCode: http.StatusOK,
			mockBody: map[string]any{
				"id":                int64(77),
				"full_name":         "test-owner/test-repo",
				"owner":             map[string]any{"login": "test-owner", "id": int64(9)},
				"description":       "Test repository",
				"license":           map[string]any{"key": "mit"},
				"language":          "Go",
				"stargazers_count":  100,
				"subscribers_count": 40,
				"forks":             10,
				"open_issues":       5,
				"created_at":        time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			expectedError: false,
		},
		{
			name:           "repository not found",
			mockStatusCode: http.StatusNotFound,
			mockBody:       map[string]any{"message": "Not Found"},
			expectedError:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/test-owner/test-repo", r.URL.Path)
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				w.WriteHeader(tc.mockStatusCode)
				_ = json.NewEncoder(w).Encode(tc.mockBody)
			})

			repo, err := client.FetchRepository(context.Background(), "test-owner", "test-repo")
			if tc.expectedError {
				assert.Error(t, err)
				assert.Nil(t, repo)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test-owner/test-repo", repo.FullName)
			assert.Equal(t, int64(9), repo.Owner.ID)
			assert.Equal(t, "mit", repo.License.Key)
			assert.Equal(t, 40, repo.Subscribers)
		})
	}
}

func TestSearchRepositories(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "language:go cache", q.Get("q"))
		assert.Equal(t, "updated", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "50", q.Get("per_page"))
		assert.Equal(t, "1", q.Get("page"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count": 2,
			"items": []map[string]any{
				{"id": 1, "name": "one", "full_name": "a/one", "owner": map[string]any{"login": "a"}},
				{"id": 2, "name": "two", "full_name": "b/two", "owner": map[string]any{"login": "b"}},
			},
		})
	})

	items, err := client.SearchRepositories(context.Background(), "language:go cache", "updated", "desc", 50, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Name)
	assert.Equal(t, "a", items[0].Owner.Login)
}

func TestListIssuesThreadsPagination(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "all", q.Get("state"))
		assert.Equal(t, "created", q.Get("sort"))
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "100", q.Get("per_page"))

		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"number": 12, "state": "open", "author_association": "NONE", "user": map[string]any{"login": "someone"}},
		})
	})

	issues, err := client.ListIssues(context.Background(), "test-owner", "test-repo", 3, 100)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 12, issues[0].Number)
	assert.Equal(t, "NONE", issues[0].AuthorAssociation)
}

func TestRateLimitSurfaced(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "4321")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	})

	_, err := client.ListTags(context.Background(), "test-owner", "test-repo")
	require.NoError(t, err)

	rate := client.RateLimit()
	assert.Equal(t, 5000, rate.Limit)
	assert.Equal(t, 4321, rate.Remaining)
	assert.Equal(t, time.Unix(1700000000, 0), rate.Reset)
}
