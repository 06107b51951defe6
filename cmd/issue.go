package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/jsweekly/internal/browser"
	"github.com/matheuskafuri/jsweekly/internal/cache"
	"github.com/matheuskafuri/jsweekly/internal/sample"
)

var flagOpen bool

func init() {
	issueCmd.Flags().BoolVar(&flagOpen, "open", false, "open the issue page in the browser")
	latestCmd.Flags().BoolVar(&flagOpen, "open", false, "open the issue page in the browser")
}

var issueCmd = &cobra.Command{
	Use:   "issue <number>",
	Short: "Print one issue as JSON, fetching it if it is not cached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		found, err := a.resolver.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printIssue(cmd, found)
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Fetch the latest issue and print it as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		found, err := a.resolver.Latest(cmd.Context())
		if err != nil {
			return err
		}
		return printIssue(cmd, found)
	},
}

var randomCmd = &cobra.Command{
	Use:   "random <count>",
	Short: "Print random articles from cached issues",
	Long: `Pick count/2 cached issues at random and up to three articles from each.

Only issues already in the cache are considered; nothing is fetched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count %q", args[0])
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		articles, err := sample.New(a.cache, a.log).Sample(cmd.Context(), count)
		if err != nil {
			return fmt.Errorf("sampling: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), articles)
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill <from> <to>",
	Short: "Fetch a range of issues into the cache",
	Long: `Resolve every issue from <from> to <to> inclusive, one at a time.

Issues already cached are not fetched again. Failures are reported and
the run continues with the next issue.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := parseRange(args[0], args[1])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		failed := 0
		for n := from; n <= to; n++ {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			found, err := a.resolver.Resolve(cmd.Context(), strconv.Itoa(n))
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] issue %d: %v\n", n, err)
				continue
			}
			fmt.Fprintf(out, "  issue %d: %d article(s)\n", n, len(found.Articles))
		}

		total := to - from + 1
		fmt.Fprintf(out, "Backfilled %d of %d issue(s).\n", total-failed, total)
		return nil
	},
}

// parseRange reads an inclusive range of positive issue numbers.
func parseRange(fromArg, toArg string) (int, int, error) {
	from, err := strconv.Atoi(fromArg)
	if err != nil || from <= 0 {
		return 0, 0, fmt.Errorf("invalid start issue %q", fromArg)
	}
	to, err := strconv.Atoi(toArg)
	if err != nil || to <= 0 {
		return 0, 0, fmt.Errorf("invalid end issue %q", toArg)
	}
	if from > to {
		return 0, 0, fmt.Errorf("start issue %d is after end issue %d", from, to)
	}
	return from, to, nil
}

func printIssue(cmd *cobra.Command, found *cache.Issue) error {
	if err := printJSON(cmd.OutOrStdout(), found); err != nil {
		return err
	}
	if flagOpen {
		if err := browser.Open(found.IssueURL); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] opening browser: %v\n", err)
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
