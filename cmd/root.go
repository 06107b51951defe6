package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/jsweekly/internal/source"
	"github.com/matheuskafuri/jsweekly/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagCache    string
	flagLogLevel string
	flagCheck    bool
)

var rootCmd = &cobra.Command{
	Use:   "jsweekly",
	Short: "JavaScript Weekly scraper and JSON API",
	Long: `jsweekly scrapes JavaScript Weekly issues into structured JSON, caches every
issue it has seen and serves them over HTTP.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagCache, "cache", "", "cache backend override (sqlite, file, memory, redis)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "jsweekly %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return nil
		}

		res, err := update.NewChecker(source.NewClient(10*time.Second)).Check(cmd.Context(), version)
		if err != nil {
			return err
		}
		if res != nil {
			fmt.Fprintf(out, "A newer release is available: %s\n", res.LatestVersion)
		} else {
			fmt.Fprintln(out, "You are on the latest release.")
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
