// Package stats turns raw issue, comment, pull-request and release
// collections into the statistical summaries carried on a repository record.
package stats

import (
	"math"
	"time"
)

func roundDays(d time.Duration) float64 {
	return math.Round(d.Hours() / 24)
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
