package stats

import (
	"time"

	"github.com/Agrumas/gh-ranker/models"
)

// BuildPullRequestStats summarizes the pull-request set: open/closed/merged
// counts, merged-to-closed ratio (two decimals) and the average hours from
// creation to close over closed pull requests.
func BuildPullRequestStats(pulls []models.PullRequest) models.PullRequestStats {
	s := models.PullRequestStats{
		Count:           len(pulls),
		MergeRatio:      models.NoData,
		AvgResolveHours: models.NoData,
	}

	var resolveTotal time.Duration
	resolved := 0
	for _, pr := range pulls {
		switch pr.State {
		case "closed":
			s.Closed++
			if pr.Merged {
				s.Merged++
			}
			if pr.ClosedAt != nil {
				resolveTotal += pr.ClosedAt.Sub(pr.CreatedAt)
				resolved++
			}
		case "open":
			s.Open++
		}
	}

	if s.Closed > 0 {
		s.MergeRatio = round2(float64(s.Merged) / float64(s.Closed))
	}
	if resolved > 0 {
		s.AvgResolveHours = roundHours(resolveTotal / time.Duration(resolved))
	}
	return s
}
