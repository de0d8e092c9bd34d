package domain

// DateLayout is the calendar-day granularity used to key snapshots.
const DateLayout = "2006-01-02"

// Snapshot holds one day's computed pull request statistics for one
// repository. One row per (Repo, Date); re-running on the same day
// overwrites the prior row.
type Snapshot struct {
	Repo string
	Date string

	TotalPRs             int
	AvgAgeDays           float64
	AvgAgeDaysExclOldest float64
	AvgComments          float64
	AvgCommentsNonZero   float64
	ApprovedPRs          int
	OldestPRAgeDays      float64
	OldestPRTitle        string
	ZeroCommentPRs       int
}

// ClosedStats summarizes pull requests closed within an analysis window,
// with an optional per-user breakdown when a tracked login is given.
type ClosedStats struct {
	Repo string

	TotalClosed int
	AvgDaysOpen float64
	StdDevDays  float64

	UserTotalClosed int
	UserAvgDaysOpen float64
	UserStdDevDays  float64
}
