package usecase

import (
	"context"
	"log"
	"time"

	"github.com/montanaflynn/stats"

	"prreporter/internal/domain"
	"prreporter/internal/gateway"
)

// ClosedAnalyzer is the use case for analyzing pull request turnaround:
// how long PRs closed in a trailing window stayed open.
type ClosedAnalyzer struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewClosedAnalyzer creates a new ClosedAnalyzer instance.
func NewClosedAnalyzer(fetcher gateway.Fetcher, logger *log.Logger) *ClosedAnalyzer {
	return &ClosedAnalyzer{
		fetcher: fetcher,
		logger:  logger,
	}
}

// AnalyzeRepo fetches the repository's recently closed pull requests and
// summarizes them. userLogin optionally restricts a secondary breakdown to
// one author; the fetched records are returned for debug rendering.
func (a *ClosedAnalyzer) AnalyzeRepo(ctx context.Context, org, repo string, since time.Time, userLogin string) (domain.ClosedStats, []domain.PullRequest, error) {
	prs, err := a.fetcher.FetchClosedPullRequests(ctx, org, repo, since)
	if err != nil {
		return domain.ClosedStats{}, nil, err
	}
	result := AnalyzeClosed(prs, userLogin)
	result.Repo = repo
	a.logger.Printf("Found %d closed pull requests in %s.\n", result.TotalClosed, repo)
	return result, prs, nil
}

// AnalyzeClosed computes turnaround statistics over closed pull requests.
// The sample standard deviation is zero when fewer than two records exist.
func AnalyzeClosed(prs []domain.PullRequest, userLogin string) domain.ClosedStats {
	var all, byUser []float64
	for _, pr := range prs {
		days := pr.DaysOpen()
		all = append(all, days)
		if userLogin != "" && pr.Author == userLogin {
			byUser = append(byUser, days)
		}
	}

	return domain.ClosedStats{
		TotalClosed:     len(all),
		AvgDaysOpen:     mean(all),
		StdDevDays:      stdDev(all),
		UserTotalClosed: len(byUser),
		UserAvgDaysOpen: mean(byUser),
		UserStdDevDays:  stdDev(byUser),
	}
}

// OverallClosed rolls per-repository results up into one summary. Each
// repository contributes its average repeated once per closed PR, so
// larger repositories weigh proportionally more.
func OverallClosed(results []domain.ClosedStats) domain.ClosedStats {
	var all, byUser []float64
	for _, r := range results {
		for i := 0; i < r.TotalClosed; i++ {
			all = append(all, r.AvgDaysOpen)
		}
		for i := 0; i < r.UserTotalClosed; i++ {
			byUser = append(byUser, r.UserAvgDaysOpen)
		}
	}
	return domain.ClosedStats{
		TotalClosed:     len(all),
		AvgDaysOpen:     mean(all),
		StdDevDays:      stdDev(all),
		UserTotalClosed: len(byUser),
		UserAvgDaysOpen: mean(byUser),
		UserStdDevDays:  stdDev(byUser),
	}
}

func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(xs)
	if err != nil {
		return 0
	}
	return sd
}
