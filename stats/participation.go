package stats

import "github.com/Agrumas/gh-ranker/models"

// BuildParticipation reduces the weekly commit timelines (most recent week
// last, typically 52 buckets) into per-window sums for the owner and for all
// contributors, deriving the non-owner share by subtraction.
func BuildParticipation(owner, all []int) models.ParticipationStats {
	s := models.ParticipationStats{
		CommitsOwnerWeek:     sumLast(owner, 1),
		CommitsOwnerTwoWeeks: sumLast(owner, 2),
		CommitsOwnerMonth:    sumLast(owner, 4),
		CommitsOwnerYear:     sumLast(owner, 0),
		CommitsAllWeek:       sumLast(all, 1),
		CommitsAllTwoWeeks:   sumLast(all, 2),
		CommitsAllMonth:      sumLast(all, 4),
		CommitsAllYear:       sumLast(all, 0),
	}
	s.CommitsOtherWeek = s.CommitsAllWeek - s.CommitsOwnerWeek
	s.CommitsOtherTwoWeeks = s.CommitsAllTwoWeeks - s.CommitsOwnerTwoWeeks
	s.CommitsOtherMonth = s.CommitsAllMonth - s.CommitsOwnerMonth
	s.CommitsOtherYear = s.CommitsAllYear - s.CommitsOwnerYear
	return s
}

// sumLast sums the trailing lastN buckets; lastN of 0 sums the whole timeline.
func sumLast(weeks []int, lastN int) int {
	if lastN > 0 && lastN < len(weeks) {
		weeks = weeks[len(weeks)-lastN:]
	}
	total := 0
	for _, n := range weeks {
		total += n
	}
	return total
}
