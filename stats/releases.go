package stats

import (
	"sort"
	"time"

	"github.com/Agrumas/gh-ranker/models"
)

// BuildReleaseStats summarizes release cadence as of the given time.
// The full history feeds the overall average gap; a trailing two-month
// window gets its own counts and gap averages, split further into final
// releases (neither draft nor prerelease) and prereleases.
func BuildReleaseStats(releases []models.Release, asOf time.Time) models.ReleaseStats {
	if len(releases) == 0 {
		return models.ReleaseStats{
			Count:                          0,
			LastInDays:                     models.NoData,
			AvgReleaseTime:                 models.NoData,
			AvgReleaseTimeInTwoMonths:      models.NoData,
			AvgFinalReleaseTimeInTwoMonths: models.NoData,
		}
	}

	sorted := make([]models.Release, len(releases))
	copy(sorted, releases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})
	last := sorted[0].PublishedAt

	twoMonthsAgo := asOf.AddDate(0, -2, 0)
	var recent, recentFinal []models.Release
	prereleases := 0
	for _, rel := range sorted {
		if rel.PublishedAt.Before(twoMonthsAgo) {
			continue
		}
		recent = append(recent, rel)
		if !rel.Draft && !rel.Prerelease {
			recentFinal = append(recentFinal, rel)
		} else {
			prereleases++
		}
	}

	return models.ReleaseStats{
		Count:                          len(releases),
		Last:                           &last,
		LastInDays:                     roundDays(asOf.Sub(last)),
		AvgReleaseTime:                 avgGapDays(sorted),
		CountInTwoMonths:               len(recent),
		AvgReleaseTimeInTwoMonths:      avgGapDays(recent),
		CountFinalInTwoMonths:          len(recentFinal),
		AvgFinalReleaseTimeInTwoMonths: avgGapDays(recentFinal),
		CountPreReleaseInTwoMonths:     prereleases,
	}
}

// avgGapDays averages the signed publish-time deltas between consecutive
// releases (expected most recent first). Non-monotonic publish times make
// individual deltas, and possibly the average, negative; that is kept as-is.
func avgGapDays(releases []models.Release) float64 {
	if len(releases) <= 1 {
		return models.NoData
	}
	var total time.Duration
	for i := 1; i < len(releases); i++ {
		total += releases[i-1].PublishedAt.Sub(releases[i].PublishedAt)
	}
	return roundDays(total / time.Duration(len(releases)-1))
}
