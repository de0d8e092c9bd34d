// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"prreporter/internal/domain"
	"prreporter/internal/gateway"
	"prreporter/internal/graph"
	"prreporter/internal/report"
	"prreporter/internal/store"
	"prreporter/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports open PR statistics and stores a daily snapshot",
	Long: `Fetches every configured repository's open pull requests, computes
statistics (counts, ages, comment and approval figures), saves one snapshot
per repository per day, and prints a per-repository report. Previously
stored snapshots drive the --compare, --graph and --dbonly modes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		cfg, err := loadConfig(cmd)
		if err != nil {
			exitWithError(err)
		}

		dbPath, _ := cmd.Flags().GetString("db")
		minAge, _ := cmd.Flags().GetInt("min-age")
		compareDays, _ := cmd.Flags().GetInt("compare")
		compareMode := cmd.Flags().Changed("compare")
		graphMode, _ := cmd.Flags().GetBool("graph")
		dbOnly, _ := cmd.Flags().GetBool("dbonly")
		repoFlag, _ := cmd.Flags().GetString("repo")
		days, _ := cmd.Flags().GetInt("days")
		verbose, _ := cmd.Flags().GetBool("verbose")

		st, err := store.Open(dbPath)
		if err != nil {
			exitWithError(err)
		}
		defer st.Close()

		repos := cfg.GitHub.Repos
		if repoFlag != "" {
			repos = []string{repoFlag}
		}
		now := time.Now().UTC()
		printer := report.New(os.Stdout)
		printer.Header("GitHub PR Report")

		if dbOnly {
			for _, repo := range repos {
				snapshot, err := st.LoadLatest(ctx, repo)
				if err != nil {
					exitWithError(err)
				}
				printer.Snapshot(snapshot, nil)
			}
		} else {
			fetcher, err := gateway.NewGitHubGateway(cfg.GitHub.AuthToken, cfg.GitHub.URL, logger)
			if err != nil {
				exitWithError(err)
			}
			reporter := usecase.NewReporter(fetcher, st, logger)

			// One repository at a time: fetch, aggregate, persist, print.
			for _, repo := range repos {
				snapshot, prs, err := reporter.SnapshotRepo(ctx, cfg.GitHub.Org, repo, now)
				if err != nil {
					exitWithError(err)
				}

				var deltas []usecase.MetricDelta
				if compareMode {
					previous, err := reporter.PreviousSnapshot(ctx, repo, now, compareDays)
					if err != nil {
						exitWithError(err)
					}
					deltas = usecase.Compare(snapshot, previous)
				}
				printer.Snapshot(snapshot, deltas)

				if verbose {
					stale := usecase.StalePullRequests(prs, now, float64(minAge), true)
					printer.StalePullRequests(stale, now)
				}
			}
		}

		if graphMode {
			since := now.AddDate(0, 0, -days).Format(domain.DateLayout)
			snapshots, err := st.LoadRange(ctx, repoFlag, since)
			if err != nil {
				exitWithError(err)
			}
			filename, err := graph.Render(snapshots, repoFlag, now)
			if err != nil {
				exitWithError(err)
			}
			fmt.Printf("\nGraph written to %s\n", filename)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("db", "pr_stats.db", "Path to the snapshot database")
	reportCmd.Flags().Int("min-age", 0, "Minimum age in days for the verbose uncommented-PR listing")
	reportCmd.Flags().Int("compare", 7, "Compare against the snapshot from N days ago")
	reportCmd.Flags().Lookup("compare").NoOptDefVal = "7"
	reportCmd.Flags().Bool("graph", false, "Render an open-PR trend graph from stored snapshots")
	reportCmd.Flags().Bool("dbonly", false, "Report from stored snapshots without querying GitHub")
	reportCmd.Flags().String("repo", "", "Restrict the report to a single repository")
	reportCmd.Flags().Int("days", 30, "Trailing window in days for --graph")
}
