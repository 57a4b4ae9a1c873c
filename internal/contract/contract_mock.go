package contract

import (
	"context"
	"time"

	"github.com/huangsam/repopulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockRepoClient is a mock implementation of RepoClient for testing.
type MockRepoClient struct {
	mock.Mock
}

var _ RepoClient = &MockRepoClient{} // Compile-time check

// GetRepository implements the RepoClient interface.
func (m *MockRepoClient) GetRepository(ctx context.Context, owner, repo string) (*schema.RepoInfo, error) {
	ret := m.Called(ctx, owner, repo)
	info, _ := ret.Get(0).(*schema.RepoInfo)
	return info, ret.Error(1)
}

// ListIssues implements the RepoClient interface.
func (m *MockRepoClient) ListIssues(ctx context.Context, owner, repo string, onPage PageFunc) ([]schema.Issue, error) {
	ret := m.Called(ctx, owner, repo, onPage)
	issues, _ := ret.Get(0).([]schema.Issue)
	return issues, ret.Error(1)
}

// CountClosedIssues implements the RepoClient interface.
func (m *MockRepoClient) CountClosedIssues(ctx context.Context, owner, repo string) (int, error) {
	ret := m.Called(ctx, owner, repo)
	return ret.Int(0), ret.Error(1)
}

// ListIssueComments implements the RepoClient interface.
func (m *MockRepoClient) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]schema.IssueComment, error) {
	ret := m.Called(ctx, owner, repo, number)
	comments, _ := ret.Get(0).([]schema.IssueComment)
	return comments, ret.Error(1)
}

// ListCommits implements the RepoClient interface.
func (m *MockRepoClient) ListCommits(ctx context.Context, owner, repo string, since time.Time, onPage PageFunc) ([]schema.Commit, error) {
	ret := m.Called(ctx, owner, repo, since, onPage)
	commits, _ := ret.Get(0).([]schema.Commit)
	return commits, ret.Error(1)
}

// ListReleases implements the RepoClient interface.
func (m *MockRepoClient) ListReleases(ctx context.Context, owner, repo string, limit int, onPage PageFunc) ([]schema.Release, error) {
	ret := m.Called(ctx, owner, repo, limit, onPage)
	releases, _ := ret.Get(0).([]schema.Release)
	return releases, ret.Error(1)
}

// GetLanguages implements the RepoClient interface.
func (m *MockRepoClient) GetLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	ret := m.Called(ctx, owner, repo)
	languages, _ := ret.Get(0).(map[string]int)
	return languages, ret.Error(1)
}

// CountOpenPullRequests implements the RepoClient interface.
func (m *MockRepoClient) CountOpenPullRequests(ctx context.Context, owner, repo string) (int, error) {
	ret := m.Called(ctx, owner, repo)
	return ret.Int(0), ret.Error(1)
}

// GetPullRequestStats implements the RepoClient interface.
func (m *MockRepoClient) GetPullRequestStats(ctx context.Context, owner, repo string) (schema.PullRequestStats, error) {
	ret := m.Called(ctx, owner, repo)
	stats, _ := ret.Get(0).(schema.PullRequestStats)
	return stats, ret.Error(1)
}

// ListRecentStargazers implements the RepoClient interface.
func (m *MockRepoClient) ListRecentStargazers(ctx context.Context, owner, repo string) ([]schema.Stargazer, error) {
	ret := m.Called(ctx, owner, repo)
	stargazers, _ := ret.Get(0).([]schema.Stargazer)
	return stargazers, ret.Error(1)
}

// GetCodeFrequency implements the RepoClient interface.
func (m *MockRepoClient) GetCodeFrequency(ctx context.Context, owner, repo string) ([]schema.WeeklyCodeFrequency, error) {
	ret := m.Called(ctx, owner, repo)
	weeks, _ := ret.Get(0).([]schema.WeeklyCodeFrequency)
	return weeks, ret.Error(1)
}

// MockCredentialStore is a mock implementation of CredentialStore for testing.
type MockCredentialStore struct {
	mock.Mock
}

var _ CredentialStore = &MockCredentialStore{} // Compile-time check

// Get implements the CredentialStore interface.
func (m *MockCredentialStore) Get() (string, error) {
	ret := m.Called()
	return ret.String(0), ret.Error(1)
}

// Set implements the CredentialStore interface.
func (m *MockCredentialStore) Set(token string) error {
	ret := m.Called(token)
	return ret.Error(0)
}

// Delete implements the CredentialStore interface.
func (m *MockCredentialStore) Delete() error {
	ret := m.Called()
	return ret.Error(0)
}
