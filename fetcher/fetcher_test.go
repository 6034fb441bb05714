package fetcher

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Agrumas/gh-ranker/github"
	"github.com/Agrumas/gh-ranker/models"
)

// MockClient is a mock implementation of the GitHub client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) FetchRepository(ctx context.Context, owner, repo string) (*github.RepositoryResponse, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.RepositoryResponse), args.Error(1)
}

func (m *MockClient) FetchParticipation(ctx context.Context, owner, repo string) (*github.ParticipationResponse, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.ParticipationResponse), args.Error(1)
}

func (m *MockClient) ListTags(ctx context.Context, owner, repo string) ([]github.TagResponse, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.TagResponse), args.Error(1)
}

func (m *MockClient) ListReleases(ctx context.Context, owner, repo string) ([]github.ReleaseResponse, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.ReleaseResponse), args.Error(1)
}

func (m *MockClient) ListIssues(ctx context.Context, owner, repo string, page, perPage int) ([]github.IssueResponse, error) {
	args := m.Called(ctx, owner, repo, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.IssueResponse), args.Error(1)
}

func (m *MockClient) ListIssueComments(ctx context.Context, owner, repo string, page, perPage int) ([]github.CommentResponse, error) {
	args := m.Called(ctx, owner, repo, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.CommentResponse), args.Error(1)
}

func (m *MockClient) ListPullRequests(ctx context.Context, owner, repo string, page, perPage int) ([]github.PullRequestResponse, error) {
	args := m.Called(ctx, owner, repo, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.PullRequestResponse), args.Error(1)
}

var fetchAsOf = time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

func metaResponse() *github.RepositoryResponse {
	meta := &github.RepositoryResponse{
		ID:              77,
		FullName:        "test-owner/test-repo",
		Description:     "Test repository",
		Language:        "Go",
		CreatedAt:       fetchAsOf.AddDate(-2, 0, 0),
		UpdatedAt:       fetchAsOf.AddDate(0, 0, -1),
		PushedAt:        fetchAsOf.AddDate(0, 0, -1),
		StargazersCount: 100,
		Watchers:        100,
		Subscribers:     40,
		Forks:           10,
		OpenIssues:      5,
	}
	meta.Owner.Login = "test-owner"
	meta.Owner.ID = 9
	return meta
}

func TestFetchAssemblesRecord(t *testing.T) {
	client := new(MockClient)

	client.On("FetchRepository", mock.Anything, "test-owner", "test-repo").Return(metaResponse(), nil)

	owner := make([]int, 52)
	all := make([]int, 52)
	owner[51], all[51], all[50] = 1, 3, 2
	client.On("FetchParticipation", mock.Anything, "test-owner", "test-repo").
		Return(&github.ParticipationResponse{All: all, Owner: owner}, nil)

	client.On("ListTags", mock.Anything, "test-owner", "test-repo").
		Return([]github.TagResponse{{Name: "v1.0.0"}, {Name: "v1.1.0"}}, nil)

	client.On("ListReleases", mock.Anything, "test-owner", "test-repo").
		Return([]github.ReleaseResponse{
			{TagName: "v1.1.0", PublishedAt: fetchAsOf.AddDate(0, 0, -10)},
		}, nil)

	inWindow := fetchAsOf.AddDate(0, 0, -5)
	outOfWindow := fetchAsOf.AddDate(0, 0, -90)
	issuePage := []github.IssueResponse{
		{Number: 1, State: "open", Comments: 1, AuthorAssociation: models.AssociationNone, CreatedAt: inWindow},
		{Number: 2, State: "open", Comments: 0, AuthorAssociation: models.AssociationNone, CreatedAt: outOfWindow},
	}
	client.On("ListIssues", mock.Anything, "test-owner", "test-repo", 1, 100).Return(issuePage, nil)

	commentPage := []github.CommentResponse{
		{
			ID:                901,
			IssueURL:          "https://api.github.com/repos/test-owner/test-repo/issues/1",
			AuthorAssociation: models.AssociationMember,
			CreatedAt:         inWindow.Add(4 * time.Hour),
		},
	}
	client.On("ListIssueComments", mock.Anything, "test-owner", "test-repo", 1, 100).Return(commentPage, nil)
	client.On("ListIssueComments", mock.Anything, "test-owner", "test-repo", 2, 100).Return([]github.CommentResponse{}, nil)

	client.On("ListPullRequests", mock.Anything, "test-owner", "test-repo", 1, 100).Return([]github.PullRequestResponse{}, nil)

	record, err := Fetch(context.Background(), client, "test-owner", "test-repo", fetchAsOf)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, int64(77), record.ID)
	assert.Equal(t, "test-owner/test-repo", record.Name)
	assert.Equal(t, "test-owner", record.Owner)
	assert.Equal(t, 2, record.Tags)

	assert.Equal(t, 3, record.Participation.CommitsAllWeek)
	assert.Equal(t, 5, record.Participation.CommitsAllTwoWeeks)
	assert.Equal(t, 1, record.Participation.CommitsOwnerWeek)
	assert.Equal(t, 4, record.Participation.CommitsOtherTwoWeeks)

	assert.Equal(t, 1, record.Releases.Count)
	assert.EqualValues(t, 10, record.Releases.LastInDays)

	// The out-of-window issue on the boundary page is dropped.
	assert.Equal(t, 1, record.Issues.Total.Count)
	assert.Equal(t, 1, record.Issues.ByOthers.Count)
	assert.Equal(t, 0, record.Issues.ByTeam.Count)
	// The team comment was joined onto issue 1 and sampled.
	assert.EqualValues(t, 4, record.Issues.Total.AvgResponseHours)

	client.AssertExpectations(t)
}

func TestFetchMetadataErrorShortCircuits(t *testing.T) {
	client := new(MockClient)
	client.On("FetchRepository", mock.Anything, "test-owner", "test-repo").
		Return(nil, fmt.Errorf("boom"))

	record, err := Fetch(context.Background(), client, "test-owner", "test-repo", fetchAsOf)

	assert.Error(t, err)
	assert.Nil(t, record)
	client.AssertNotCalled(t, "FetchParticipation", mock.Anything, mock.Anything, mock.Anything)
}

func TestFetchSubFetchErrorFailsRecord(t *testing.T) {
	client := new(MockClient)
	client.On("FetchRepository", mock.Anything, "test-owner", "test-repo").Return(metaResponse(), nil)
	client.On("FetchParticipation", mock.Anything, "test-owner", "test-repo").
		Return(nil, fmt.Errorf("participation unavailable"))
	client.On("ListTags", mock.Anything, "test-owner", "test-repo").Return([]github.TagResponse{}, nil)
	client.On("ListReleases", mock.Anything, "test-owner", "test-repo").Return([]github.ReleaseResponse{}, nil)
	client.On("ListIssues", mock.Anything, "test-owner", "test-repo", 1, 100).Return([]github.IssueResponse{}, nil)
	client.On("ListIssueComments", mock.Anything, "test-owner", "test-repo", 1, 100).Return([]github.CommentResponse{}, nil)
	client.On("ListPullRequests", mock.Anything, "test-owner", "test-repo", 1, 100).Return([]github.PullRequestResponse{}, nil)

	record, err := Fetch(context.Background(), client, "test-owner", "test-repo", fetchAsOf)

	assert.Nil(t, record)
	assert.ErrorContains(t, err, "participation unavailable")
}

func TestParentIssueNumber(t *testing.T) {
	testCases := []struct {
		url      string
		expected int
	}{
		{"https://api.github.com/repos/o/r/issues/1347", 1347},
		{"https://api.github.com/repos/o/r/issues/abc", 0},
		{"no-slashes", 0},
		{"", 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, parentIssueNumber(tc.url), tc.url)
	}
}
