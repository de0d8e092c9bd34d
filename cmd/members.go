package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prreporter/internal/gateway"
	"prreporter/internal/report"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Lists organization members and their public emails",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		cfg, err := loadConfig(cmd)
		if err != nil {
			exitWithError(err)
		}
		fetcher, err := gateway.NewGitHubGateway(cfg.GitHub.AuthToken, cfg.GitHub.URL, logger)
		if err != nil {
			exitWithError(err)
		}

		fmt.Printf("Fetching members for organization: %s...\n", cfg.GitHub.Org)
		members, err := fetcher.FetchOrgMembers(ctx, cfg.GitHub.Org)
		if err != nil {
			exitWithError(err)
		}

		if len(members) == 0 {
			fmt.Println("No members were listed by the API.")
			fmt.Println("This could be due to a few reasons:")
			fmt.Println("  1. The token may lack the 'read:org' permission to list organization members.")
			fmt.Println("  2. Members may have their membership visibility set to private.")
			fmt.Println("  3. The organization might genuinely have no members visible to this token.")
			fmt.Println("Please check your token scopes and organization settings.")
			os.Exit(0)
		}

		report.New(os.Stdout).Members(cfg.GitHub.Org, members)
	},
}

func init() {
	rootCmd.AddCommand(membersCmd)
}
