package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DavidOteria/OcculusINT/internal/csvio"
	"github.com/DavidOteria/OcculusINT/internal/report"
)

var (
	reportMinScore int
	reportOut      string
)

var reportCmd = &cobra.Command{
	Use:   "report <score.csv>",
	Short: "Render scored domains as a grouped text report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		rows, err := csvio.Read(input)
		if err != nil {
			return err
		}

		entries := report.EntriesFromRows(rows, "fqdn", "score")
		if len(entries) == 0 {
			entries = report.EntriesFromRows(rows, "domain", "total_score")
		}
		if len(entries) == 0 {
			return fmt.Errorf("no scored rows in %s", input)
		}

		if reportOut == "" {
			return report.WriteGrouped(os.Stdout, entries, reportMinScore)
		}
		if err := report.SaveGrouped(reportOut, entries, reportMinScore); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", reportOut)
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportMinScore, "min-score", report.DefaultMinScore, "hide domains scoring below this")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (default stdout)")
}
