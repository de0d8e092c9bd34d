package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"prreporter/internal/domain"
	"prreporter/internal/gateway"
	"prreporter/internal/report"
	"prreporter/internal/usecase"
)

var closedCmd = &cobra.Command{
	Use:   "closed",
	Short: "Analyzes how long recently closed PRs stayed open",
	Long: `Fetches pull requests closed within a trailing window and reports
per-repository turnaround: total closed, average days open and standard
deviation, optionally broken down for a single author.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		days, _ := cmd.Flags().GetInt("days")
		if days < 1 {
			fmt.Fprintln(os.Stderr, "Error: number of days must be positive")
			os.Exit(1)
		}
		userLogin, _ := cmd.Flags().GetString("user")
		debug, _ := cmd.Flags().GetBool("debug")

		cfg, err := loadConfig(cmd)
		if err != nil {
			exitWithError(err)
		}
		fetcher, err := gateway.NewGitHubGateway(cfg.GitHub.AuthToken, cfg.GitHub.URL, logger)
		if err != nil {
			exitWithError(err)
		}
		analyzer := usecase.NewClosedAnalyzer(fetcher, logger)

		since := time.Now().UTC().AddDate(0, 0, -days)
		printer := report.New(os.Stdout)

		var results []domain.ClosedStats
		var details [][]domain.PullRequest
		for _, repo := range cfg.GitHub.Repos {
			stats, prs, err := analyzer.AnalyzeRepo(ctx, cfg.GitHub.Org, repo, since, userLogin)
			if err != nil {
				exitWithError(err)
			}
			results = append(results, stats)
			details = append(details, prs)
		}

		if debug {
			for i, stats := range results {
				printer.ClosedDebug(stats.Repo, details[i])
			}
			return
		}

		printer.ClosedHeader(days, userLogin)
		for _, stats := range results {
			printer.ClosedStats(stats, userLogin)
		}
		printer.ClosedOverall(usecase.OverallClosed(results), userLogin)
	},
}

func init() {
	rootCmd.AddCommand(closedCmd)
	closedCmd.Flags().Int("days", 28, "Number of days to look back")
	closedCmd.Flags().String("user", "", "GitHub username to track PRs for")
	closedCmd.Flags().Bool("debug", false, "Show detailed per-PR information")
}
