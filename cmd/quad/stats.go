package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/quad/internal/platform/tui"
	"github.com/vovakirdan/quad/internal/storage"
)

var (
	flagStatsLimit  int
	flagStatsBrowse bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent runs",
	Long: `Display the most recent runs with their target and measured frame rates.
With --browse, open an interactive table that also shows the frame rate
measured in every second of the selected run.

Examples:
  quad stats
  quad stats --limit 20
  quad stats --browse
  quad stats --db ./stats.db`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of runs to show")
	statsCmd.Flags().BoolVar(&flagStatsBrowse, "browse", false, "Browse runs interactively")
}

func runStats(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.StatsDB == "" {
		fmt.Fprintln(os.Stderr, "Error: no stats database configured (stats_db is empty)")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.StatsDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening stats database: %v\n", err)
		os.Exit(1)
	}

	if flagStatsBrowse {
		browseErr := tui.RunHistory(store, flagStatsLimit)
		store.Close()
		if browseErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", browseErr)
			os.Exit(1)
		}
		return
	}

	runs, err := store.RecentRuns(flagStatsLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Println("Recent runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'quad' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-5s  %-7s  %-6s  %-8s  %-8s  %-7s  %-14s  %s\n",
		"Run", "Backend", "Target", "Interval", "Frames", "Avg FPS", "End", "Started")
	fmt.Printf("  %-5s  %-7s  %-6s  %-8s  %-8s  %-7s  %-14s  %s\n",
		"---", "-------", "------", "--------", "------", "-------", "---", "-------")

	for _, r := range runs {
		fmt.Println(formatRun(r))
	}
}

// formatRun renders one row of the stats table.
func formatRun(r storage.Run) string {
	avg := "-"
	if r.Samples > 0 {
		avg = fmt.Sprintf("%.1f", r.AvgFPS)
	}
	reason := r.EndReason
	if reason == "" {
		reason = "running"
	}
	started := "-"
	if !r.StartedAt.IsZero() {
		started = r.StartedAt.Format("2006-01-02 15:04")
	}

	return fmt.Sprintf("  %-5d  %-7s  %-6.1f  %-8s  %-8d  %-7s  %-14s  %s",
		r.ID, r.Backend, r.FrameRate, fmt.Sprintf("%dms", r.IntervalMS), r.Frames, avg, reason, started)
}
