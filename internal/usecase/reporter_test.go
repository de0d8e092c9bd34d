package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"prreporter/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchOpenPullRequests(ctx context.Context, org, repo string) ([]domain.PullRequest, error) {
	args := m.Called(ctx, org, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) FetchClosedPullRequests(ctx context.Context, org, repo string, since time.Time) ([]domain.PullRequest, error) {
	args := m.Called(ctx, org, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) FetchOrgMembers(ctx context.Context, org string) ([]domain.Member, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

// mockStore is a mock implementation of the HistoryStore interface.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *mockStore) Load(ctx context.Context, repo, date string) (domain.Snapshot, error) {
	args := m.Called(ctx, repo, date)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func TestReporter_SnapshotRepo(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("happy path - computes, keys and persists the snapshot", func(t *testing.T) {
		fetcher := new(mockFetcher)
		store := new(mockStore)
		prs := []domain.PullRequest{
			prAged(now, 2, 1),
			prAged(now, 4, 0, approved),
		}
		fetcher.On("FetchOpenPullRequests", mock.Anything, "any-org", "repo-a").Return(prs, nil)
		store.On("Save", mock.Anything, mock.MatchedBy(func(s domain.Snapshot) bool {
			return s.Repo == "repo-a" && s.Date == "2025-06-01" && s.TotalPRs == 2
		})).Return(nil)

		reporter := NewReporter(fetcher, store, logger)
		snapshot, fetched, err := reporter.SnapshotRepo(ctx, "any-org", "repo-a", now)

		assert.NoError(t, err)
		assert.Equal(t, "repo-a", snapshot.Repo)
		assert.Equal(t, "2025-06-01", snapshot.Date)
		assert.Equal(t, 1, snapshot.ApprovedPRs)
		assert.Equal(t, prs, fetched)
		fetcher.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("error case - fetch fails and nothing is saved", func(t *testing.T) {
		fetcher := new(mockFetcher)
		store := new(mockStore)
		fetcher.On("FetchOpenPullRequests", mock.Anything, "any-org", "repo-a").Return(nil, errors.New("github api error"))

		reporter := NewReporter(fetcher, store, logger)
		_, _, err := reporter.SnapshotRepo(ctx, "any-org", "repo-a", now)

		assert.Error(t, err)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("error case - save failure propagates", func(t *testing.T) {
		fetcher := new(mockFetcher)
		store := new(mockStore)
		fetcher.On("FetchOpenPullRequests", mock.Anything, "any-org", "repo-a").Return([]domain.PullRequest{}, nil)
		store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		reporter := NewReporter(fetcher, store, logger)
		_, _, err := reporter.SnapshotRepo(ctx, "any-org", "repo-a", now)

		assert.ErrorContains(t, err, "disk full")
	})
}

func TestReporter_PreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

	store := new(mockStore)
	want := domain.Snapshot{Repo: "repo-a", Date: "2025-06-01", TotalPRs: 3}
	store.On("Load", mock.Anything, "repo-a", "2025-06-01").Return(want, nil)

	reporter := NewReporter(new(mockFetcher), store, logger)
	got, err := reporter.PreviousSnapshot(ctx, "repo-a", now, 7)

	assert.NoError(t, err)
	assert.Equal(t, want, got)
	store.AssertExpectations(t)
}
