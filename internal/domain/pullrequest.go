// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

const hoursPerDay = 24

// PullRequest is a single pull request as fetched from GitHub.
// It is ephemeral: records feed the aggregator and are never persisted.
type PullRequest struct {
	Number         int
	Title          string
	URL            string
	Author         string
	CreatedAt      time.Time
	ClosedAt       time.Time // zero for open PRs
	Comments       int
	Approved       bool
	ReadyForReview bool
	Draft          bool
}

// AgeDays returns how long the pull request has been open, in fractional days.
func (p PullRequest) AgeDays(now time.Time) float64 {
	return now.Sub(p.CreatedAt).Hours() / hoursPerDay
}

// DaysOpen returns how long a closed pull request stayed open, in fractional days.
func (p PullRequest) DaysOpen() float64 {
	return p.ClosedAt.Sub(p.CreatedAt).Hours() / hoursPerDay
}

// Member is an organization member with their public email, if any.
type Member struct {
	Login string
	Email string
}
