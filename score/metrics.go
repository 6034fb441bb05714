// Package score flattens repository records into scalar metrics, applies
// the weighted activity heuristic, and ranks the result set.
package score

import (
	"math"
	"time"

	"github.com/Agrumas/gh-ranker/models"
)

// Metrics is the flattened scoring view of one repository record. Field
// names mirror the nested record paths (IssuesByOthers.Open stands for
// issues.byOthers.open and so on). The days-ago fields are computed against
// an explicit as-of time so scoring never touches the wall clock.
type Metrics struct {
	ID          int64
	Name        string
	Stargazers  int
	Subscribers int
	Forks       int
	OpenIssues  int
	Tags        int

	CreatedDaysAgo float64
	UpdatedDaysAgo float64
	PushedDaysAgo  float64

	CommitsAllTwoWeeks int
	CommitsAllMonth    int
	CommitsAllYear     int

	ReleaseCount        int
	ReleasesInTwoMonths int

	IssuesByOthers models.IssueStats
}

// NewMetrics projects a repository record onto the scoring view.
func NewMetrics(repo models.Repository, asOf time.Time) Metrics {
	return Metrics{
		ID:          repo.ID,
		Name:        repo.Name,
		Stargazers:  repo.Stargazers,
		Subscribers: repo.Subscribers,
		Forks:       repo.Forks,
		OpenIssues:  repo.OpenIssues,
		Tags:        repo.Tags,

		CreatedDaysAgo: daysAgo(asOf, repo.CreatedAt),
		UpdatedDaysAgo: daysAgo(asOf, repo.UpdatedAt),
		PushedDaysAgo:  daysAgo(asOf, repo.PushedAt),

		CommitsAllTwoWeeks: repo.Participation.CommitsAllTwoWeeks,
		CommitsAllMonth:    repo.Participation.CommitsAllMonth,
		CommitsAllYear:     repo.Participation.CommitsAllYear,

		ReleaseCount:        repo.Releases.Count,
		ReleasesInTwoMonths: repo.Releases.CountInTwoMonths,

		IssuesByOthers: repo.Issues.ByOthers,
	}
}

func daysAgo(asOf, t time.Time) float64 {
	return math.Round(asOf.Sub(t).Hours() / 24)
}
