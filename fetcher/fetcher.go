// Package fetcher assembles the aggregate record for a single repository
// from the several GitHub API sub-fetches.
package fetcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Agrumas/gh-ranker/github"
	"github.com/Agrumas/gh-ranker/models"
	"github.com/Agrumas/gh-ranker/pager"
	"github.com/Agrumas/gh-ranker/stats"
)

// Page caps per source. Comments run much deeper than issues because one
// busy issue can produce pages of them; all three protect against runaway
// pagination on extremely active repositories.
const (
	issuesMaxPages   = 10
	commentsMaxPages = 50
	pullsMaxPages    = 10
)

// recentWindowMonths bounds issue, comment and pull-request freshness.
const recentWindowMonths = 2

// Client defines the GitHub client operations needed by the fetcher
// (for testability)
type Client interface {
	FetchRepository(ctx context.Context, owner, repo string) (*github.RepositoryResponse, error)
	FetchParticipation(ctx context.Context, owner, repo string) (*github.ParticipationResponse, error)
	ListTags(ctx context.Context, owner, repo string) ([]github.TagResponse, error)
	ListReleases(ctx context.Context, owner, repo string) ([]github.ReleaseResponse, error)
	ListIssues(ctx context.Context, owner, repo string, page, perPage int) ([]github.IssueResponse, error)
	ListIssueComments(ctx context.Context, owner, repo string, page, perPage int) ([]github.CommentResponse, error)
	ListPullRequests(ctx context.Context, owner, repo string, page, perPage int) ([]github.PullRequestResponse, error)
}

// Fetch builds the aggregate record for one repository. The metadata
// request runs first since it seeds the record id; the participation, tag,
// release and issue sub-fetches then run concurrently. Any sub-fetch error
// fails the whole record.
func Fetch(ctx context.Context, client Client, owner, repo string, asOf time.Time) (*models.Repository, error) {
	meta, err := client.FetchRepository(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for %s/%s: %w", owner, repo, err)
	}

	record := &models.Repository{
		ID:          meta.ID,
		Name:        meta.FullName,
		Owner:       meta.Owner.Login,
		OwnerID:     meta.Owner.ID,
		Description: meta.Description,
		Language:    meta.Language,
		CreatedAt:   meta.CreatedAt,
		UpdatedAt:   meta.UpdatedAt,
		PushedAt:    meta.PushedAt,
		Size:        meta.Size,
		Stargazers:  meta.StargazersCount,
		Watchers:    meta.Watchers,
		Subscribers: meta.Subscribers,
		Forks:       meta.Forks,
		OpenIssues:  meta.OpenIssues,
	}
	if meta.License != nil {
		record.License = meta.License.Key
	}

	// Each goroutine writes a distinct field of the record.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		part, err := client.FetchParticipation(gctx, owner, repo)
		if err != nil {
			return err
		}
		record.Participation = stats.BuildParticipation(part.Owner, part.All)
		return nil
	})
	g.Go(func() error {
		tags, err := client.ListTags(gctx, owner, repo)
		if err != nil {
			return err
		}
		record.Tags = len(tags)
		return nil
	})
	g.Go(func() error {
		releases, err := client.ListReleases(gctx, owner, repo)
		if err != nil {
			return err
		}
		record.Releases = stats.BuildReleaseStats(mapReleases(releases), asOf)
		return nil
	})
	g.Go(func() error {
		breakdown, err := fetchIssueBundle(gctx, client, owner, repo, meta.ID, asOf)
		if err != nil {
			return err
		}
		record.Issues = breakdown
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", owner, repo, err)
	}

	return record, nil
}

// fetchIssueBundle pulls recent issues, comments and pull requests
// concurrently, joins the comments onto their issues and aggregates the
// partitioned statistics.
func fetchIssueBundle(ctx context.Context, client Client, owner, repo string, projectID int64, asOf time.Time) (models.IssueBreakdown, error) {
	cutoff := asOf.AddDate(0, -recentWindowMonths, 0)

	var (
		issues   []models.Issue
		comments []models.Comment
		pulls    []models.PullRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := pager.FetchPaged(gctx, func(ctx context.Context, page, perPage int) ([]github.IssueResponse, error) {
			return client.ListIssues(ctx, owner, repo, page, perPage)
		}, pager.DefaultPerPage, func(items []github.IssueResponse) bool {
			return items[len(items)-1].CreatedAt.After(cutoff)
		}, issuesMaxPages)
		if err != nil {
			return fmt.Errorf("issues: %w", err)
		}
		issues = mapIssues(raw, projectID)
		return nil
	})
	g.Go(func() error {
		raw, err := pager.FetchPaged(gctx, func(ctx context.Context, page, perPage int) ([]github.CommentResponse, error) {
			return client.ListIssueComments(ctx, owner, repo, page, perPage)
		}, pager.DefaultPerPage, func(items []github.CommentResponse) bool {
			return items[len(items)-1].CreatedAt.After(cutoff)
		}, commentsMaxPages)
		if err != nil {
			return fmt.Errorf("comments: %w", err)
		}
		comments = mapComments(raw, projectID)
		return nil
	})
	g.Go(func() error {
		raw, err := pager.FetchPaged(gctx, func(ctx context.Context, page, perPage int) ([]github.PullRequestResponse, error) {
			return client.ListPullRequests(ctx, owner, repo, page, perPage)
		}, pager.DefaultPerPage, func(items []github.PullRequestResponse) bool {
			return items[len(items)-1].CreatedAt.After(cutoff)
		}, pullsMaxPages)
		if err != nil {
			return fmt.Errorf("pull requests: %w", err)
		}
		pulls = mapPullRequests(raw, projectID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.IssueBreakdown{}, err
	}

	stats.AttachComments(issues, comments)
	return stats.BuildIssueBreakdown(issues, pulls), nil
}

func mapReleases(raw []github.ReleaseResponse) []models.Release {
	releases := make([]models.Release, 0, len(raw))
	for _, rel := range raw {
		releases = append(releases, models.Release{
			PublishedAt: rel.PublishedAt,
			Draft:       rel.Draft,
			Prerelease:  rel.Prerelease,
		})
	}
	return releases
}

func mapIssues(raw []github.IssueResponse, projectID int64) []models.Issue {
	issues := make([]models.Issue, 0, len(raw))
	for _, issue := range raw {
		labels := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			labels = append(labels, label.Name)
		}
		issues = append(issues, models.Issue{
			ProjectID:         projectID,
			Number:            issue.Number,
			Title:             issue.Title,
			State:             issue.State,
			CommentsCount:     issue.Comments,
			AuthorAssociation: issue.AuthorAssociation,
			Author:            issue.User.Login,
			Labels:            labels,
			CreatedAt:         issue.CreatedAt,
			ClosedAt:          issue.ClosedAt,
		})
	}
	return issues
}

func mapComments(raw []github.CommentResponse, projectID int64) []models.Comment {
	comments := make([]models.Comment, 0, len(raw))
	for _, comment := range raw {
		comments = append(comments, models.Comment{
			ProjectID:         projectID,
			IssueID:           parentIssueNumber(comment.IssueURL),
			ID:                comment.ID,
			AuthorAssociation: comment.AuthorAssociation,
			Author:            comment.User.Login,
			CreatedAt:         comment.CreatedAt,
			UpdatedAt:         comment.UpdatedAt,
		})
	}
	return comments
}

func mapPullRequests(raw []github.PullRequestResponse, projectID int64) []models.PullRequest {
	pulls := make([]models.PullRequest, 0, len(raw))
	for _, pr := range raw {
		pulls = append(pulls, models.PullRequest{
			ProjectID:         projectID,
			Number:            pr.Number,
			Title:             pr.Title,
			State:             pr.State,
			AuthorAssociation: pr.AuthorAssociation,
			Author:            pr.User.Login,
			CreatedAt:         pr.CreatedAt,
			UpdatedAt:         pr.UpdatedAt,
			ClosedAt:          pr.ClosedAt,
			MergedAt:          pr.MergedAt,
			Closed:            pr.ClosedAt != nil,
			Merged:            pr.MergedAt != nil,
		})
	}
	return pulls
}

// parentIssueNumber extracts the issue number from a comment's parent
// issue URL (".../issues/1347"). Returns 0 when the URL has no usable
// trailing number; such comments simply never match an issue.
func parentIssueNumber(issueURL string) int {
	idx := strings.LastIndex(issueURL, "/")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(issueURL[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
