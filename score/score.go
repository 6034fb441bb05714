package score

import (
	"math"
	"sort"
	"time"

	"github.com/Agrumas/gh-ranker/models"
)

// Score reduces a metrics view to a single unbounded heuristic value;
// higher is better. Each term contributes only when its guard holds, so no
// division ever sees a zero denominator. The recent-commit bonus applies on
// top of the recency ladder even though both look at the same window; that
// double counting is deliberate and tuned into the weights.
func Score(m Metrics) float64 {
	s := 0.5 * math.Min(float64(m.Subscribers)/2, 50) / 50
	s += 0.5 * math.Min(float64(m.Forks)/5, 50) / 50

	open := float64(m.IssuesByOthers.Open)
	recent := float64(m.IssuesByOthers.Count)
	if m.IssuesByOthers.Open > 5 {
		// Rewards a low open share among recent non-team issues; goes
		// negative past the halfway mark.
		s += 2 * (0.5 - open/recent)
	}
	if m.IssuesByOthers.Open > 0 && m.OpenIssues > 0 {
		// Backlog penalty: recent opens small against the total open count.
		s -= (1 - open/float64(m.OpenIssues)) * math.Min(float64(m.OpenIssues)/100, 1)
	}
	if m.IssuesByOthers.Closed > 0 {
		s += 2 * math.Min(float64(m.IssuesByOthers.Closed), 50) / 50
	}
	if m.IssuesByOthers.WithoutComments > 0 {
		unanswered := float64(m.IssuesByOthers.WithoutComments)
		s -= 4 * unanswered / recent * (math.Min(unanswered/2, 15) / 15)
	}
	if m.IssuesByOthers.AvgResponseHours > 0 {
		// 710h is the empirical mean response time across the corpus.
		s += 0.5 * math.Max(710-m.IssuesByOthers.AvgResponseHours-72, 0) / 710
	}
	if m.IssuesByOthers.AvgResolveDays > 0 {
		s += 0.5 * math.Max(30-m.IssuesByOthers.AvgResolveDays-7, 0) / 30
	}

	switch {
	case m.CommitsAllTwoWeeks > 0:
		s += 0.2
	case m.CommitsAllMonth > 0:
		s += 0.1
	case m.CommitsAllYear <= 1:
		s -= 1
	default:
		s -= math.Min(m.PushedDaysAgo/30/12, 1)
	}
	s += math.Min(float64(m.CommitsAllMonth), 10) / 10

	if m.ReleaseCount > 0 {
		s += 0.3 * math.Min(float64(m.ReleaseCount), 14) / 14
		s += 0.2 * math.Min(float64(m.ReleasesInTwoMonths), 2) / 2
	}
	s += math.Min(float64(m.Tags), 8) / 8

	return s
}

// RankedRepository is a repository record with its computed score.
type RankedRepository struct {
	models.Repository
	Score float64 `json:"score"`
}

// Rank scores every record against the as-of time and orders the result
// descending by score: a stable ascending sort followed by a reversal, so
// the relative order of equal scores is deterministic in the input
// (search) order.
func Rank(repos []models.Repository, asOf time.Time) []RankedRepository {
	ranked := make([]RankedRepository, 0, len(repos))
	for _, repo := range repos {
		ranked = append(ranked, RankedRepository{
			Repository: repo,
			Score:      Score(NewMetrics(repo, asOf)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	for i, j := 0, len(ranked)-1; i < j; i, j = i+1, j-1 {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	}
	return ranked
}
