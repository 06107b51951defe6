package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.cache.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Backend: %s\n", a.cfg.Cache.Backend)
		fmt.Fprintf(out, "Cache: %s\n", cacheLocation(a.cfg))
		fmt.Fprintf(out, "Issues: %d\n", st.Issues)
		fmt.Fprintf(out, "Articles: %d\n", st.Articles)
		if st.Bytes > 0 {
			fmt.Fprintf(out, "Size: %s\n", formatBytes(st.Bytes))
		}
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
