// Package service runs one full ranking cycle: collect repository records
// (by search and fetch, or by snapshot replay), export, score and rank.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Agrumas/gh-ranker/config"
	"github.com/Agrumas/gh-ranker/fetcher"
	"github.com/Agrumas/gh-ranker/github"
	"github.com/Agrumas/gh-ranker/logger"
	"github.com/Agrumas/gh-ranker/models"
	"github.com/Agrumas/gh-ranker/score"
	"github.com/Agrumas/gh-ranker/snapshot"
)

// searchPageLimit is the GitHub search API page-size maximum.
const searchPageLimit = 100

// GitHubClient abstracts the GitHub client operations needed by the service
// (for testability)
type GitHubClient interface {
	fetcher.Client
	SearchRepositories(ctx context.Context, query, sort, order string, perPage, page int) ([]github.SearchResult, error)
	RateLimit() github.RateLimit
}

// FetchResult is the outcome of one repository fetch. A failed fetch keeps
// its reason; downstream ranking only ever sees present records.
type FetchResult struct {
	Owner  string
	Repo   string
	Record *models.Repository
	Err    error
}

// Service represents the main application service
type Service struct {
	config *config.Config
	client GitHubClient
	asOf   time.Time
}

// New creates a service instance. asOf anchors every recency window and
// days-ago metric of the run.
func New(cfg *config.Config, client GitHubClient, asOf time.Time) *Service {
	return &Service{
		config: cfg,
		client: client,
		asOf:   asOf,
	}
}

// Run executes one ranking cycle and returns the scored records in
// descending score order.
func (s *Service) Run(ctx context.Context) ([]score.RankedRepository, error) {
	records, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("Ranking repositories",
		zap.Int("count", len(records)),
		zap.Time("as_of", s.asOf))
	return score.Rank(records, s.asOf), nil
}

// collect produces the raw record set, either by replaying a snapshot or
// by searching and fetching. Failures here are fatal for the run; failures
// below the repository level are swallowed per repository.
func (s *Service) collect(ctx context.Context) ([]models.Repository, error) {
	if s.config.Import != "" {
		return snapshot.Import(s.config.Import)
	}

	perPage := s.config.Limit
	if perPage > searchPageLimit {
		perPage = searchPageLimit
	}
	items, err := s.client.SearchRepositories(ctx, s.config.Query, s.config.Sort, s.config.Order, perPage, 1)
	if err != nil {
		return nil, fmt.Errorf("repository search failed: %w", err)
	}

	records := make([]models.Repository, 0, len(items))
	for _, result := range s.fetchAll(ctx, items) {
		if result.Err != nil {
			logger.Warn("Skipping repository",
				zap.String("owner", result.Owner),
				zap.String("repo", result.Repo),
				zap.Error(result.Err))
			continue
		}
		records = append(records, *result.Record)
	}

	if s.config.Export != "" {
		if err := snapshot.Export(s.config.Export, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// fetchAll builds one result per search item. Fetches run under a bounded
// worker pool (limit 1 keeps the sequential, rate-limit friendly default);
// results land in search order regardless of completion order, and one bad
// repository never aborts the batch.
func (s *Service) fetchAll(ctx context.Context, items []github.SearchResult) []FetchResult {
	results := make([]FetchResult, len(items))

	limit := s.config.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			logger.Info("Fetching repository",
				zap.Int("index", i),
				zap.String("name", item.FullName),
				zap.Int("rate_remaining", s.client.RateLimit().Remaining))

			record, err := fetcher.Fetch(ctx, s.client, item.Owner.Login, item.Name, s.asOf)
			results[i] = FetchResult{
				Owner:  item.Owner.Login,
				Repo:   item.Name,
				Record: record,
				Err:    err,
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
