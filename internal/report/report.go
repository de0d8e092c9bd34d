// Package report renders the console output: snapshot blocks with optional
// day-over-day comparison, the verbose stale-PR listing, and the closed-PR
// analysis tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"prreporter/internal/domain"
	"prreporter/internal/usecase"
)

var (
	favorable   = color.New(color.FgGreen).SprintfFunc()
	unfavorable = color.New(color.FgRed).SprintfFunc()
)

// Printer writes report sections to a single output stream.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Header prints the report title over a separator bar.
func (p *Printer) Header(title string) {
	fmt.Fprintf(p.w, "\n%s\n%s\n", title, strings.Repeat("=", 50))
}

// Snapshot prints one repository's metric block. When deltas are given,
// each metric carries its previous value, colored green when the change is
// favorable and red otherwise.
func (p *Printer) Snapshot(s domain.Snapshot, deltas []usecase.MetricDelta) {
	byName := make(map[string]usecase.MetricDelta, len(deltas))
	for _, d := range deltas {
		byName[d.Name] = d
	}

	fmt.Fprintf(p.w, "\nRepository: %s\n", s.Repo)
	p.line(byName, "Total Open PRs", fmt.Sprintf("%d", s.TotalPRs))
	p.line(byName, "Average PR Age", fmt.Sprintf("%.1f days", s.AvgAgeDays))
	p.line(byName, "Average PR Age (excl. oldest)", fmt.Sprintf("%.1f days", s.AvgAgeDaysExclOldest))
	p.line(byName, "Average Comments per PR", fmt.Sprintf("%.1f", s.AvgComments))
	p.line(byName, "Average Comments (commented PRs)", fmt.Sprintf("%.1f", s.AvgCommentsNonZero))
	p.line(byName, "PRs with Zero Comments", fmt.Sprintf("%d", s.ZeroCommentPRs))
	p.line(byName, "Approved PRs", fmt.Sprintf("%d", s.ApprovedPRs))
	if s.TotalPRs > 0 {
		p.line(byName, "Oldest PR Age", fmt.Sprintf("%.1f days", s.OldestPRAgeDays))
		fmt.Fprintf(p.w, "Oldest PR: %s\n", s.OldestPRTitle)
	}
}

func (p *Printer) line(byName map[string]usecase.MetricDelta, name, value string) {
	fmt.Fprintf(p.w, "%s: %s", name, value)
	if d, ok := byName[name]; ok {
		annotation := fmt.Sprintf("(was %.1f)", d.Previous)
		if d.Favorable {
			annotation = favorable("%s", annotation)
		} else {
			annotation = unfavorable("%s", annotation)
		}
		fmt.Fprintf(p.w, " %s", annotation)
	}
	fmt.Fprintln(p.w)
}

// StalePullRequests prints the verbose listing of uncommented pull
// requests, oldest first.
func (p *Printer) StalePullRequests(prs []domain.PullRequest, now time.Time) {
	if len(prs) == 0 {
		fmt.Fprintln(p.w, "\nNo uncommented PRs matched the filter.")
		return
	}
	fmt.Fprintln(p.w, "\nUncommented PRs (oldest first):")
	for _, pr := range prs {
		fmt.Fprintf(p.w, "  #%-5d %6.1f days  %s\n", pr.Number, pr.AgeDays(now), pr.URL)
	}
}

// ClosedHeader prints the closed-PR analysis title and parameters.
func (p *Printer) ClosedHeader(days int, userLogin string) {
	fmt.Fprintf(p.w, "\nClosed PR Analysis Report\n%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(p.w, "Period: Last %d days\n", days)
	if userLogin != "" {
		fmt.Fprintf(p.w, "Tracking user: %s\n", userLogin)
	}
	fmt.Fprintln(p.w, strings.Repeat("=", 50))
}

// ClosedStats prints one repository's turnaround summary.
func (p *Printer) ClosedStats(s domain.ClosedStats, userLogin string) {
	fmt.Fprintf(p.w, "\nRepository: %s\n", s.Repo)
	fmt.Fprintf(p.w, "Total Closed PRs: %d\n", s.TotalClosed)
	if s.TotalClosed > 0 {
		fmt.Fprintf(p.w, "Average Days Open: %.1f\n", s.AvgDaysOpen)
		fmt.Fprintf(p.w, "Standard Deviation: %.1f\n", s.StdDevDays)
	}
	if userLogin != "" {
		fmt.Fprintf(p.w, "\nStatistics for %s:\n", userLogin)
		fmt.Fprintf(p.w, "Closed PRs: %d\n", s.UserTotalClosed)
		if s.UserTotalClosed > 0 {
			fmt.Fprintf(p.w, "Average Days Open: %.1f\n", s.UserAvgDaysOpen)
			fmt.Fprintf(p.w, "Standard Deviation: %.1f\n", s.UserStdDevDays)
		}
	}
}

// ClosedOverall prints the cross-repository roll-up.
func (p *Printer) ClosedOverall(overall domain.ClosedStats, userLogin string) {
	fmt.Fprintf(p.w, "\nOverall Statistics\n%s\n", strings.Repeat("-", 50))
	fmt.Fprintf(p.w, "Total Closed PRs: %d\n", overall.TotalClosed)
	if overall.TotalClosed > 0 {
		fmt.Fprintf(p.w, "Overall Average Days Open: %.1f\n", overall.AvgDaysOpen)
		fmt.Fprintf(p.w, "Overall Standard Deviation: %.1f\n", overall.StdDevDays)
	}
	if userLogin != "" {
		fmt.Fprintf(p.w, "\nOverall Statistics for %s\n", userLogin)
		fmt.Fprintf(p.w, "Total Closed PRs: %d\n", overall.UserTotalClosed)
		if overall.UserTotalClosed > 0 {
			fmt.Fprintf(p.w, "Average Days Open: %.1f\n", overall.UserAvgDaysOpen)
			fmt.Fprintf(p.w, "Standard Deviation: %.1f\n", overall.UserStdDevDays)
		}
	}
}

// ClosedDebug prints the per-PR detail table for one repository.
func (p *Printer) ClosedDebug(repo string, prs []domain.PullRequest) {
	fmt.Fprintf(p.w, "\nDetailed PR Information for %s:\n", repo)
	fmt.Fprintln(p.w, strings.Repeat("-", 80))
	fmt.Fprintf(p.w, "%-6s %-20s %-20s %-10s %-30s\n", "PR #", "Opened", "Closed", "Days Open", "Author Login")
	fmt.Fprintln(p.w, strings.Repeat("-", 80))
	for _, pr := range prs {
		fmt.Fprintf(p.w, "%-6d %-20s %-20s %-10.1f %-30s\n",
			pr.Number,
			pr.CreatedAt.Format("2006-01-02 15:04"),
			pr.ClosedAt.Format("2006-01-02 15:04"),
			pr.DaysOpen(),
			pr.Author,
		)
	}
}

// Members prints the organization member table.
func (p *Printer) Members(org string, members []domain.Member) {
	fmt.Fprintf(p.w, "\n%-30s %-40s\n", "GitHub Login", "Public Email")
	fmt.Fprintln(p.w, strings.Repeat("-", 70))
	for _, m := range members {
		email := m.Email
		if email == "" {
			email = "Not publicly available"
		}
		fmt.Fprintf(p.w, "%-30s %-40s\n", m.Login, email)
	}
	fmt.Fprintf(p.w, "Found %d member(s) in %s.\n", len(members), org)
}
