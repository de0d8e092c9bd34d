// Package graph renders open-PR trend charts from stored snapshots.
package graph

import (
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"prreporter/internal/domain"
)

// Render plots the open-PR count over time, one line per repository, and
// saves it as {repo|"all_repos"}_pr_trends_{date}.png in the working
// directory. Snapshots must be ordered by repository then date, as
// returned by the history store. The written filename is returned.
func Render(snapshots []domain.Snapshot, repo string, now time.Time) (string, error) {
	if len(snapshots) == 0 {
		return "", fmt.Errorf("%w: nothing to graph", domain.ErrNoHistoricalData)
	}

	p := plot.New()
	p.Title.Text = "Open PR Trends"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Open PRs"
	p.X.Tick.Marker = plot.TimeTicks{Format: domain.DateLayout}
	p.Add(plotter.NewGrid())

	series := make(map[string]plotter.XYs)
	var order []string
	for _, snap := range snapshots {
		day, err := time.Parse(domain.DateLayout, snap.Date)
		if err != nil {
			return "", fmt.Errorf("malformed snapshot date %q: %w", snap.Date, err)
		}
		if _, ok := series[snap.Repo]; !ok {
			order = append(order, snap.Repo)
		}
		series[snap.Repo] = append(series[snap.Repo], plotter.XY{
			X: float64(day.Unix()),
			Y: float64(snap.TotalPRs),
		})
	}

	args := make([]interface{}, 0, 2*len(order))
	for _, name := range order {
		args = append(args, name, series[name])
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return "", fmt.Errorf("failed to build trend lines: %w", err)
	}

	name := repo
	if name == "" {
		name = "all_repos"
	}
	filename := fmt.Sprintf("%s_pr_trends_%s.png", name, now.Format(domain.DateLayout))
	if err := p.Save(10*vg.Inch, 5*vg.Inch, filename); err != nil {
		return "", fmt.Errorf("failed to save graph %s: %w", filename, err)
	}
	return filename, nil
}
