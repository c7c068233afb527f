package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"policyscope/internal/formatter"
	"policyscope/pkg/metadata"
)

var (
	flagReportInput   string
	flagReportOutput  string
	flagReportTitle   string
	flagReportSummary bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a markdown report",
	Long: `Report renders stats and every policy's settings as markdown. The report
ends with a provenance block holding a hash of its body, checked by
"policyscope verify".

Examples:
  policyscope report --input policies.json --output report.md
  policyscope report --summary`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <report.md>",
	Short: "Check that a report has not been edited since it was generated",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(verifyCmd)

	reportCmd.Flags().StringVarP(&flagReportInput, "input", "i", "", "Policies JSON written by fetch")
	reportCmd.Flags().StringVarP(&flagReportOutput, "output", "o", "-", "Output file (- for stdout)")
	reportCmd.Flags().StringVar(&flagReportTitle, "title", "", "Report title")
	reportCmd.Flags().BoolVar(&flagReportSummary, "summary", false, "Only include the summary tables")
}

func runReport(cmd *cobra.Command, _ []string) error {
	file, err := loadSnapshot(cmd.Context(), flagReportInput)
	if err != nil {
		return err
	}

	report := formatter.Report(file.Policies, formatter.ReportOptions{
		Title:         flagReportTitle,
		GeneratedAt:   time.Now(),
		FailedSources: file.FailedSources,
		SummaryOnly:   flagReportSummary,
	})

	return writeOutput(flagReportOutput, []byte(report))
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	meta, err := metadata.Verify(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d policies, generated %s)\n",
		args[0], meta.Policies, meta.GeneratedAt.Format(time.RFC3339))

	return nil
}
