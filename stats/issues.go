package stats

import (
	"time"

	"github.com/Agrumas/gh-ranker/models"
)

// AttachComments joins comments onto their parent issues by issue number.
// Each issue gets its matched comments in fetched order; issues with no
// match keep a nil slice.
func AttachComments(issues []models.Issue, comments []models.Comment) {
	grouped := make(map[int][]models.Comment, len(issues))
	for _, comment := range comments {
		grouped[comment.IssueID] = append(grouped[comment.IssueID], comment)
	}
	for i := range issues {
		issues[i].Comments = grouped[issues[i].Number]
	}
}

// BuildIssueBreakdown partitions the issue set by team membership of the
// issue author and computes stats for each partition plus the full set.
// Pull-request stats are carried alongside but never enter the score.
func BuildIssueBreakdown(issues []models.Issue, pulls []models.PullRequest) models.IssueBreakdown {
	var byTeam, byOthers []models.Issue
	for _, issue := range issues {
		if models.InTeam(issue.AuthorAssociation) {
			byTeam = append(byTeam, issue)
		} else {
			byOthers = append(byOthers, issue)
		}
	}
	return models.IssueBreakdown{
		ByTeam:       buildIssueStats(byTeam),
		ByOthers:     buildIssueStats(byOthers),
		Total:        buildIssueStats(issues),
		PullRequests: BuildPullRequestStats(pulls),
	}
}

func buildIssueStats(issues []models.Issue) models.IssueStats {
	s := models.IssueStats{
		Count:            len(issues),
		AvgResolveDays:   models.NoData,
		AvgResponseHours: models.NoData,
	}

	var resolveTotal time.Duration
	resolved := 0
	for _, issue := range issues {
		switch issue.State {
		case "closed":
			s.Closed++
			if issue.ClosedAt != nil {
				resolveTotal += issue.ClosedAt.Sub(issue.CreatedAt)
				resolved++
			}
		case "open":
			s.Open++
		}
		if issue.CommentsCount == 0 {
			s.WithoutComments++
		}
	}
	if resolved > 0 {
		s.AvgResolveDays = roundDays(resolveTotal / time.Duration(resolved))
	}

	var responseTotal time.Duration
	responses := 0
	for _, issue := range issues {
		if gap, ok := teamResponseTime(issue); ok {
			responseTotal += gap
			responses++
		}
	}
	if responses > 0 {
		s.AvgResponseHours = roundHours(responseTotal / time.Duration(responses))
	}

	return s
}

// teamResponseTime returns the gap between issue creation and the earliest
// team-authored comment. An issue whose comments are all from outside the
// team, or whose earliest team reply does not fall strictly after creation,
// contributes no sample.
func teamResponseTime(issue models.Issue) (time.Duration, bool) {
	var earliest time.Time
	found := false
	for _, comment := range issue.Comments {
		if !models.InTeam(comment.AuthorAssociation) {
			continue
		}
		if !found || comment.CreatedAt.Before(earliest) {
			earliest = comment.CreatedAt
			found = true
		}
	}
	if !found {
		return 0, false
	}
	gap := earliest.Sub(issue.CreatedAt)
	if gap <= 0 {
		return 0, false
	}
	return gap, true
}
