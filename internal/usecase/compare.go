package usecase

import "prreporter/internal/domain"

// MetricDelta is one metric of the current snapshot next to its value in a
// historical snapshot. Favorable reports whether the change is a good sign
// for the repository; an unchanged value is favorable.
type MetricDelta struct {
	Name      string
	Current   float64
	Previous  float64
	Favorable bool
}

// Increased reports whether the metric went up since the previous snapshot.
func (d MetricDelta) Increased() bool {
	return d.Current > d.Previous
}

// snapshotMetrics is the declarative polarity table driving comparisons.
// upIsGood encodes the per-metric direction: growing PR counts and ages are
// unfavorable, while growing approval and discussion are favorable. Adding
// a metric here is all that is needed to include it in comparisons.
var snapshotMetrics = []struct {
	name     string
	value    func(domain.Snapshot) float64
	upIsGood bool
}{
	{"Total Open PRs", func(s domain.Snapshot) float64 { return float64(s.TotalPRs) }, false},
	{"Average PR Age", func(s domain.Snapshot) float64 { return s.AvgAgeDays }, false},
	{"Average PR Age (excl. oldest)", func(s domain.Snapshot) float64 { return s.AvgAgeDaysExclOldest }, false},
	{"Average Comments per PR", func(s domain.Snapshot) float64 { return s.AvgComments }, true},
	{"Average Comments (commented PRs)", func(s domain.Snapshot) float64 { return s.AvgCommentsNonZero }, true},
	{"PRs with Zero Comments", func(s domain.Snapshot) float64 { return float64(s.ZeroCommentPRs) }, false},
	{"Approved PRs", func(s domain.Snapshot) float64 { return float64(s.ApprovedPRs) }, true},
	{"Oldest PR Age", func(s domain.Snapshot) float64 { return s.OldestPRAgeDays }, false},
}

// Compare lines up the current snapshot against a previous one, metric by
// metric, in the fixed report order.
func Compare(current, previous domain.Snapshot) []MetricDelta {
	deltas := make([]MetricDelta, 0, len(snapshotMetrics))
	for _, m := range snapshotMetrics {
		cur, prev := m.value(current), m.value(previous)
		favorable := cur == prev
		if cur > prev {
			favorable = m.upIsGood
		} else if cur < prev {
			favorable = !m.upIsGood
		}
		deltas = append(deltas, MetricDelta{
			Name:      m.name,
			Current:   cur,
			Previous:  prev,
			Favorable: favorable,
		})
	}
	return deltas
}
