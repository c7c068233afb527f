package main

import (
	"time"

	"github.com/spf13/cobra"

	"policyscope/internal/formatter"
	"policyscope/internal/stats"
)

var (
	flagStatsInput string
	flagStatsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print policy counts, unassigned and recently modified policies",
	Long: `Stats summarizes a policy set. Without --input the cached policies are used,
fetching from Graph when the cache is stale.

Examples:
  policyscope stats --input policies.json
  policyscope stats --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&flagStatsInput, "input", "i", "", "Policies JSON written by fetch")
	statsCmd.Flags().BoolVar(&flagStatsJSON, "json", false, "Print JSON instead of tables")
}

func runStats(cmd *cobra.Command, _ []string) error {
	file, err := loadSnapshot(cmd.Context(), flagStatsInput)
	if err != nil {
		return err
	}

	s := stats.Compute(file.Policies, time.Now())

	if flagStatsJSON {
		return writeJSONOutput("-", s)
	}

	return writeOutput("-", []byte(formatter.StatsMarkdown(s)))
}
