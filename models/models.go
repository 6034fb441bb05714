// Package models defines the core data structures used throughout the application.
//
// Numeric metrics that can be "not computable" (averages over empty sets,
// days-since values with no underlying event) carry the NoData sentinel
// instead of a zero, so a true zero measurement stays distinguishable.
package models

import "time"

// NoData marks a numeric metric that could not be computed.
const NoData = -1

// Author associations, as reported by the GitHub API.
const (
	AssociationOwner        = "OWNER"
	AssociationMember       = "MEMBER"
	AssociationCollaborator = "COLLABORATOR"
	AssociationContributor  = "CONTRIBUTOR"
	AssociationNone         = "NONE"
)

// teamAssociations are the associations that count as repository team members.
var teamAssociations = map[string]bool{
	AssociationOwner:        true,
	AssociationMember:       true,
	AssociationCollaborator: true,
}

// InTeam reports whether an author association belongs to the repository team.
func InTeam(association string) bool {
	return teamAssociations[association]
}

// Repository is the aggregate record built for one repository per fetch cycle.
// It is assembled once and never mutated afterwards.
type Repository struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"` // full "owner/repo" name
	Owner         string             `json:"owner"`
	OwnerID       int64              `json:"ownerId"`
	Description   string             `json:"description"`
	License       string             `json:"license"`
	Language      string             `json:"language"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	PushedAt      time.Time          `json:"pushedAt"`
	Size          int                `json:"size"`
	Stargazers    int                `json:"stargazers"`
	Watchers      int                `json:"watchers"`
	Subscribers   int                `json:"subscribers"`
	Forks         int                `json:"forks"`
	OpenIssues    int                `json:"openIssues"`
	Tags          int                `json:"tags"`
	Participation ParticipationStats `json:"participation"`
	Releases      ReleaseStats       `json:"releases"`
	Issues        IssueBreakdown     `json:"issues"`
}

// ParticipationStats holds commit counts bucketed by author group and window,
// derived from the 52-week participation timeline (most recent week last).
// CommitsOtherX equals CommitsAllX minus CommitsOwnerX for every window.
type ParticipationStats struct {
	CommitsOwnerWeek     int `json:"commitsOwnerWeek"`
	CommitsOwnerTwoWeeks int `json:"commitsOwnerTwoWeeks"`
	CommitsOwnerMonth    int `json:"commitsOwnerMonth"`
	CommitsOwnerYear     int `json:"commitsOwnerYear"`
	CommitsAllWeek       int `json:"commitsAllWeek"`
	CommitsAllTwoWeeks   int `json:"commitsAllTwoWeeks"`
	CommitsAllMonth      int `json:"commitsAllMonth"`
	CommitsAllYear       int `json:"commitsAllYear"`
	CommitsOtherWeek     int `json:"commitsOtherWeek"`
	CommitsOtherTwoWeeks int `json:"commitsOtherTwoWeeks"`
	CommitsOtherMonth    int `json:"commitsOtherMonth"`
	CommitsOtherYear     int `json:"commitsOtherYear"`
}

// Release is one published release, reduced to the fields the release
// statistics need.
type Release struct {
	PublishedAt time.Time `json:"publishedAt"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
}

// ReleaseStats summarizes release cadence. Last is nil when the repository
// has no releases; average gaps are NoData when fewer than two releases
// fall into the relevant set.
type ReleaseStats struct {
	Count      int        `json:"count"`
	Last       *time.Time `json:"last"`
	LastInDays float64    `json:"lastInDays"`
	// Mean gap between consecutive releases, in days. Signed: publish
	// times that are not monotonic can make it negative.
	AvgReleaseTime                 float64 `json:"avgReleaseTime"`
	CountInTwoMonths               int     `json:"countInTwoMonth"`
	AvgReleaseTimeInTwoMonths      float64 `json:"avgReleaseTimeInTwoMonth"`
	CountFinalInTwoMonths          int     `json:"countFinalInTwoMonth"`
	AvgFinalReleaseTimeInTwoMonths float64 `json:"avgFinalReleaseTimeInTwoMonth"`
	CountPreReleaseInTwoMonths     int     `json:"countPreReleaseInTwoMonth"`
}

// Issue is one issue together with its matched comments.
type Issue struct {
	ProjectID         int64      `json:"projectId"`
	Number            int        `json:"number"`
	Title             string     `json:"title"`
	State             string     `json:"state"` // "open" or "closed"
	CommentsCount     int        `json:"commentsCount"`
	AuthorAssociation string     `json:"authorAssociation"`
	Author            string     `json:"author"`
	Labels            []string   `json:"labels"`
	CreatedAt         time.Time  `json:"createdAt"`
	ClosedAt          *time.Time `json:"closedAt"`
	Comments          []Comment  `json:"comments"`
}

// Comment is one issue comment. IssueID is parsed from the comment's
// parent issue URL, not returned directly by the API.
type Comment struct {
	ProjectID         int64     `json:"projectId"`
	IssueID           int       `json:"issueId"`
	ID                int64     `json:"id"`
	AuthorAssociation string    `json:"authorAssociation"`
	Author            string    `json:"author"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// PullRequest is one pull request.
type PullRequest struct {
	ProjectID         int64      `json:"projectId"`
	Number            int        `json:"number"`
	Title             string     `json:"title"`
	State             string     `json:"state"`
	AuthorAssociation string     `json:"authorAssociation"`
	Author            string     `json:"author"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	ClosedAt          *time.Time `json:"closedAt"`
	MergedAt          *time.Time `json:"mergedAt"`
	Closed            bool       `json:"closed"`
	Merged            bool       `json:"merged"`
}

// IssueStats summarizes one partition of the recent issue set.
type IssueStats struct {
	Count           int `json:"count"`
	Open            int `json:"open"`
	Closed          int `json:"closed"`
	WithoutComments int `json:"withoutComments"`
	// Mean created-to-closed gap in days over closed issues, NoData if
	// none are closed.
	AvgResolveDays float64 `json:"avgResolveDays"`
	// Mean time to the first team-authored comment in hours, over issues
	// that received one. NoData if no issue did.
	AvgResponseHours float64 `json:"avgResponseHours"`
}

// IssueBreakdown partitions the recent issue set by team membership of the
// issue author. Pull-request stats ride along but are not scored.
type IssueBreakdown struct {
	ByTeam       IssueStats       `json:"byTeam"`
	ByOthers     IssueStats       `json:"byOthers"`
	Total        IssueStats       `json:"total"`
	PullRequests PullRequestStats `json:"pr"`
}

// PullRequestStats summarizes the recent pull-request set.
type PullRequestStats struct {
	Count           int     `json:"count"`
	Open            int     `json:"open"`
	Closed          int     `json:"closed"`
	Merged          int     `json:"merged"`
	MergeRatio      float64 `json:"mergeRatio"`
	AvgResolveHours float64 `json:"avgResolveHours"`
}
