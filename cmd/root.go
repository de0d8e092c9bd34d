// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"prreporter/internal/config"
	"prreporter/internal/domain"
)

var rootCmd = &cobra.Command{
	Use:   "prreporter",
	Short: "A CLI tool to report on a GitHub organization's pull requests.",
	Long: `prreporter queries a GitHub organization's repositories for pull
requests, computes descriptive statistics, persists daily snapshots to a
local SQLite database, and can render day-over-day comparisons and trend
graphs from the stored history.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to the YAML config file (CONFIG_PATH overrides)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the run's logger from the persistent verbose flag.
// Logs are discarded unless --verbose is set, in which case they go to
// standard error so they never mix with the report on stdout.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadConfig resolves the config path (CONFIG_PATH wins over --config) and
// loads the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		path = env
	}
	return config.Load(path)
}

// exitWithError prints the error with remediation steps for the known
// failure kinds and terminates the run with a non-zero status.
func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	switch {
	case errors.Is(err, domain.ErrConfigNotFound):
		fmt.Fprintln(os.Stderr, "Create a config.yaml (see config.example.yaml) or point --config/CONFIG_PATH at an existing file.")
	case errors.Is(err, domain.ErrConfigMalformed):
		fmt.Fprintln(os.Stderr, "Fix the YAML syntax in the config file; see config.example.yaml for the expected layout.")
	case errors.Is(err, domain.ErrConfigMissingField):
		fmt.Fprintln(os.Stderr, "Add the missing keys under the 'github' section: org, auth_token and a non-empty repos list.")
	case errors.Is(err, domain.ErrAuthInvalid):
		fmt.Fprintln(os.Stderr, "Check the github.auth_token value; the token must be valid and not expired.")
	case errors.Is(err, domain.ErrOrgNotFound):
		fmt.Fprintln(os.Stderr, "Check the github.org value; the organization must exist and be visible to the token.")
	case errors.Is(err, domain.ErrRepoNotFound):
		fmt.Fprintln(os.Stderr, "Check the github.repos list; every repository must exist within the organization.")
	case errors.Is(err, domain.ErrNoHistoricalData):
		fmt.Fprintln(os.Stderr, "Run a live report first so snapshots exist for the requested repository and date.")
	}
	os.Exit(1)
}
