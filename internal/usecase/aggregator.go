// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"prreporter/internal/domain"
	"prreporter/internal/gateway"
)

// HistoryStore is the persistence the reporter depends on. One snapshot
// per repository per day; saving again on the same day overwrites.
type HistoryStore interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Load(ctx context.Context, repo, date string) (domain.Snapshot, error)
}

// Reporter is the use case for producing daily pull request snapshots.
// It orchestrates fetching, aggregation and persistence for one
// repository at a time.
type Reporter struct {
	fetcher gateway.Fetcher
	store   HistoryStore
	logger  *log.Logger
}

// NewReporter creates a new Reporter instance.
func NewReporter(fetcher gateway.Fetcher, store HistoryStore, logger *log.Logger) *Reporter {
	return &Reporter{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

// SnapshotRepo fetches the repository's open pull requests, computes the
// daily snapshot and persists it. The fetched records are returned as well
// so the caller can render the verbose listing without a second fetch.
func (r *Reporter) SnapshotRepo(ctx context.Context, org, repo string, now time.Time) (domain.Snapshot, []domain.PullRequest, error) {
	prs, err := r.fetcher.FetchOpenPullRequests(ctx, org, repo)
	if err != nil {
		return domain.Snapshot{}, nil, err
	}

	snapshot := ComputeSnapshot(prs, now)
	snapshot.Repo = repo
	snapshot.Date = now.Format(domain.DateLayout)

	if err := r.store.Save(ctx, snapshot); err != nil {
		return domain.Snapshot{}, nil, fmt.Errorf("failed to save snapshot for %s: %w", repo, err)
	}
	r.logger.Printf("Saved snapshot for %s (%s).\n", repo, snapshot.Date)
	return snapshot, prs, nil
}

// PreviousSnapshot loads the snapshot stored daysBack days before now.
func (r *Reporter) PreviousSnapshot(ctx context.Context, repo string, now time.Time, daysBack int) (domain.Snapshot, error) {
	date := now.AddDate(0, 0, -daysBack).Format(domain.DateLayout)
	return r.store.Load(ctx, repo, date)
}

// ComputeSnapshot aggregates a repository's open pull requests into a
// snapshot. Repo and Date are left for the caller to fill in.
//
// The oldest pull request is the one with the maximum age; on ties the
// first one encountered in input order wins. With zero or one record
// there is nothing to exclude, so the exclusive average falls back to
// the plain average (or zero for an empty list).
func ComputeSnapshot(prs []domain.PullRequest, now time.Time) domain.Snapshot {
	snapshot := domain.Snapshot{TotalPRs: len(prs)}
	if len(prs) == 0 {
		return snapshot
	}

	ages := make([]float64, len(prs))
	comments := make([]float64, len(prs))
	oldest := 0
	for i, pr := range prs {
		ages[i] = pr.AgeDays(now)
		comments[i] = float64(pr.Comments)
		if ages[i] > ages[oldest] {
			oldest = i
		}
		if pr.Comments == 0 {
			snapshot.ZeroCommentPRs++
		}
		if pr.Approved {
			snapshot.ApprovedPRs++
		}
	}

	snapshot.AvgAgeDays = mean(ages)
	snapshot.AvgComments = mean(comments)
	snapshot.OldestPRAgeDays = ages[oldest]
	snapshot.OldestPRTitle = prs[oldest].Title

	if len(prs) == 1 {
		snapshot.AvgAgeDaysExclOldest = snapshot.AvgAgeDays
	} else {
		rest := make([]float64, 0, len(ages)-1)
		rest = append(rest, ages[:oldest]...)
		rest = append(rest, ages[oldest+1:]...)
		snapshot.AvgAgeDaysExclOldest = mean(rest)
	}

	var commented []float64
	for _, c := range comments {
		if c > 0 {
			commented = append(commented, c)
		}
	}
	snapshot.AvgCommentsNonZero = mean(commented)

	return snapshot
}

// StalePullRequests returns the pull requests with no comments and an age
// of at least minAgeDays, sorted oldest first. When readyOnly is set,
// draft pull requests are skipped.
func StalePullRequests(prs []domain.PullRequest, now time.Time, minAgeDays float64, readyOnly bool) []domain.PullRequest {
	var stale []domain.PullRequest
	for _, pr := range prs {
		if pr.Comments != 0 {
			continue
		}
		if readyOnly && !pr.ReadyForReview {
			continue
		}
		if pr.AgeDays(now) < minAgeDays {
			continue
		}
		stale = append(stale, pr)
	}
	sort.SliceStable(stale, func(i, j int) bool {
		return stale[i].AgeDays(now) > stale[j].AgeDays(now)
	})
	return stale
}

// mean wraps the stats library's Mean, treating an empty input as zero.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}
