// Package github is a thin authenticated client for the GitHub REST API
// endpoints the ranker needs. It exposes single-page list calls; the
// pagination policy lives with the callers.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Agrumas/gh-ranker/logger"
)

// RateLimit represents GitHub's rate limit information
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Client represents a GitHub API client
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL

	mu       sync.Mutex
	lastRate RateLimit
}

// SearchResult is one repository item from the search endpoint.
type SearchResult struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type searchResponse struct {
	TotalCount int            `json:"total_count"`
	Items      []SearchResult `json:"items"`
}

// RepositoryResponse mirrors the repository metadata endpoint.
type RepositoryResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
		ID    int64  `json:"id"`
	} `json:"owner"`
	Description string `json:"description"`
	License     *struct {
		Key string `json:"key"`
	} `json:"license"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PushedAt        time.Time `json:"pushed_at"`
	Size            int       `json:"size"`
	StargazersCount int       `json:"stargazers_count"`
	Watchers        int       `json:"watchers"`
	Subscribers     int       `json:"subscribers_count"`
	Forks           int       `json:"forks"`
	OpenIssues      int       `json:"open_issues"`
}

// ParticipationResponse holds the 52-week commit timelines, oldest first.
type ParticipationResponse struct {
	All   []int `json:"all"`
	Owner []int `json:"owner"`
}

// TagResponse is one repository tag.
type TagResponse struct {
	Name string `json:"name"`
}

// ReleaseResponse is one release.
type ReleaseResponse struct {
	TagName     string    `json:"tag_name"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	CreatedAt   time.Time `json:"created_at"`
	PublishedAt time.Time `json:"published_at"`
}

// IssueResponse is one issue from the repository issues endpoint.
type IssueResponse struct {
	Number            int    `json:"number"`
	Title             string `json:"title"`
	State             string `json:"state"`
	Comments          int    `json:"comments"`
	AuthorAssociation string `json:"author_association"`
	User              struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// CommentResponse is one issue comment. The parent issue is only available
// through IssueURL.
type CommentResponse struct {
	ID                int64  `json:"id"`
	IssueURL          string `json:"issue_url"`
	AuthorAssociation string `json:"author_association"`
	User              struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PullRequestResponse is one pull request.
type PullRequestResponse struct {
	Number            int    `json:"number"`
	Title             string `json:"title"`
	State             string `json:"state"`
	AuthorAssociation string `json:"author_association"`
	User              struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	MergedAt  *time.Time `json:"merged_at"`
}

// NewClient creates a GitHub client authenticated with the given token.
func NewClient(token string) *Client {
	baseURL, _ := url.Parse("https://api.github.com")

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 30 * time.Second

	logger.Info("Initializing GitHub client", zap.String("base_url", baseURL.String()))
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// NewClientWithBaseURL is like NewClient but targets a custom API root.
// Used by tests against httptest servers.
func NewClientWithBaseURL(token, base string) (*Client, error) {
	c := NewClient(token)
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	c.baseURL = baseURL
	return c, nil
}

// RateLimit returns the rate limit reported by the most recent response.
func (c *Client) RateLimit() RateLimit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRate
}

// SearchRepositories returns one page of repository search results.
func (c *Client) SearchRepositories(ctx context.Context, query, sort, order string, perPage, page int) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", sort)
	q.Set("order", order)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))

	var out searchResponse
	if err := c.get(ctx, "/search/repositories", q, &out); err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}

	logger.Info("Repository search completed",
		zap.String("query", query),
		zap.Int("total_count", out.TotalCount),
		zap.Int("returned", len(out.Items)))
	return out.Items, nil
}

// FetchRepository fetches repository metadata.
func (c *Client) FetchRepository(ctx context.Context, owner, repo string) (*RepositoryResponse, error) {
	var out RepositoryResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, repo, err)
	}
	return &out, nil
}

// FetchParticipation fetches the weekly commit participation timelines.
func (c *Client) FetchParticipation(ctx context.Context, owner, repo string) (*ParticipationResponse, error) {
	var out ParticipationResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/stats/participation", owner, repo), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch participation for %s/%s: %w", owner, repo, err)
	}
	return &out, nil
}

// ListTags returns the first page of repository tags (up to 100).
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]TagResponse, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(100))

	var out []TagResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/tags", owner, repo), q, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch tags for %s/%s: %w", owner, repo, err)
	}
	return out, nil
}

// ListReleases returns the first page of releases (up to 100).
func (c *Client) ListReleases(ctx context.Context, owner, repo string) ([]ReleaseResponse, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(100))

	var out []ReleaseResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/releases", owner, repo), q, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch releases for %s/%s: %w", owner, repo, err)
	}
	return out, nil
}

// ListIssues returns one page of issues of any state, newest created first.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, page, perPage int) ([]IssueResponse, error) {
	q := url.Values{}
	q.Set("state", "all")
	q.Set("sort", "created")
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out []IssueResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/issues", owner, repo), q, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch issues for %s/%s: %w", owner, repo, err)
	}
	return out, nil
}

// ListIssueComments returns one page of repository-wide issue comments,
// newest created first.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, page, perPage int) ([]CommentResponse, error) {
	q := url.Values{}
	q.Set("sort", "created")
	q.Set("direction", "desc")
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out []CommentResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/issues/comments", owner, repo), q, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch comments for %s/%s: %w", owner, repo, err)
	}
	return out, nil
}

// ListPullRequests returns one page of pull requests of any state, newest
// created first.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, page, perPage int) ([]PullRequestResponse, error) {
	q := url.Values{}
	q.Set("state", "all")
	q.Set("sort", "created")
	q.Set("direction", "desc")
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out []PullRequestResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/pulls", owner, repo), q, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests for %s/%s: %w", owner, repo, err)
	}
	return out, nil
}

// get performs one GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		reqURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("GitHub request failed",
			zap.Error(err),
			zap.String("path", path))
		return err
	}
	defer resp.Body.Close()

	rate := parseRateLimit(resp)
	c.mu.Lock()
	c.lastRate = rate
	c.mu.Unlock()

	logger.Debug("GitHub request completed",
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("rate_remaining", rate.Remaining))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	return nil
}

// parseRateLimit parses rate limit information from response headers
func parseRateLimit(resp *http.Response) RateLimit {
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	remaining, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	reset, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)

	return RateLimit{
		Limit:     limit,
		Remaining: remaining,
		Reset:     time.Unix(reset, 0),
	}
}
