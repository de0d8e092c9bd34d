package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"prreporter/internal/domain"
	"prreporter/internal/usecase"
)

func init() {
	// Keep assertions independent of the terminal.
	color.NoColor = true
}

func TestPrinter_Snapshot(t *testing.T) {
	snapshot := domain.Snapshot{
		Repo:                 "repo-a",
		Date:                 "2025-06-01",
		TotalPRs:             4,
		AvgAgeDays:           2.5,
		AvgAgeDaysExclOldest: 2.0,
		AvgComments:          2.0,
		AvgCommentsNonZero:   4.0,
		ApprovedPRs:          1,
		OldestPRAgeDays:      4.0,
		OldestPRTitle:        "the oldest change",
		ZeroCommentPRs:       2,
	}

	t.Run("without comparison", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf).Snapshot(snapshot, nil)
		out := buf.String()

		assert.Contains(t, out, "Repository: repo-a")
		assert.Contains(t, out, "Total Open PRs: 4\n")
		assert.Contains(t, out, "Average PR Age: 2.5 days")
		assert.Contains(t, out, "Average PR Age (excl. oldest): 2.0 days")
		assert.Contains(t, out, "Average Comments per PR: 2.0")
		assert.Contains(t, out, "PRs with Zero Comments: 2")
		assert.Contains(t, out, "Approved PRs: 1")
		assert.Contains(t, out, "Oldest PR: the oldest change")
		assert.NotContains(t, out, "(was")
	})

	t.Run("with comparison annotations", func(t *testing.T) {
		previous := snapshot
		previous.TotalPRs = 2
		deltas := usecase.Compare(snapshot, previous)

		var buf bytes.Buffer
		New(&buf).Snapshot(snapshot, deltas)
		out := buf.String()

		assert.Contains(t, out, "Total Open PRs: 4 (was 2.0)")
	})

	t.Run("empty repository omits the oldest PR lines", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf).Snapshot(domain.Snapshot{Repo: "repo-b"}, nil)
		out := buf.String()

		assert.Contains(t, out, "Total Open PRs: 0")
		assert.NotContains(t, out, "Oldest PR")
	})
}

func TestPrinter_StalePullRequests(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("lists age and URL", func(t *testing.T) {
		prs := []domain.PullRequest{{
			Number:    7,
			URL:       "https://example.com/pr/7",
			CreatedAt: now.Add(-10 * 24 * time.Hour),
		}}

		var buf bytes.Buffer
		New(&buf).StalePullRequests(prs, now)
		out := buf.String()

		assert.Contains(t, out, "Uncommented PRs (oldest first):")
		assert.Contains(t, out, "#7")
		assert.Contains(t, out, "10.0 days")
		assert.Contains(t, out, "https://example.com/pr/7")
	})

	t.Run("empty listing", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf).StalePullRequests(nil, now)

		assert.Contains(t, buf.String(), "No uncommented PRs matched the filter.")
	})
}

func TestPrinter_ClosedStats(t *testing.T) {
	stats := domain.ClosedStats{
		Repo:            "repo-a",
		TotalClosed:     3,
		AvgDaysOpen:     2.5,
		StdDevDays:      1.2,
		UserTotalClosed: 1,
		UserAvgDaysOpen: 4.0,
	}

	var buf bytes.Buffer
	p := New(&buf)
	p.ClosedHeader(28, "alice")
	p.ClosedStats(stats, "alice")
	out := buf.String()

	assert.Contains(t, out, "Closed PR Analysis Report")
	assert.Contains(t, out, "Period: Last 28 days")
	assert.Contains(t, out, "Tracking user: alice")
	assert.Contains(t, out, "Total Closed PRs: 3")
	assert.Contains(t, out, "Average Days Open: 2.5")
	assert.Contains(t, out, "Standard Deviation: 1.2")
	assert.Contains(t, out, "Statistics for alice:")
}

func TestPrinter_Members(t *testing.T) {
	members := []domain.Member{
		{Login: "alice", Email: "alice@example.com"},
		{Login: "bob"},
	}

	var buf bytes.Buffer
	New(&buf).Members("any-org", members)
	out := buf.String()

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "Not publicly available")
	assert.Contains(t, out, "Found 2 member(s) in any-org.")
}
