package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DavidOteria/OcculusINT/internal/csvio"
	"github.com/DavidOteria/OcculusINT/internal/runner"
	"github.com/DavidOteria/OcculusINT/internal/score"
)

var scoreKeywords []string

var scoreCmd = &cobra.Command{
	Use:   "score <domains.csv>",
	Short: "Score domains for risk using passive network signals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		rows, err := csvio.Read(input)
		if err != nil {
			return err
		}
		domains := domainColumn(rows)
		if len(domains) == 0 {
			return fmt.Errorf("no fqdn column values in %s", input)
		}

		keywords := scoreKeywords
		if len(keywords) == 0 {
			keywords = cliCfg.Keywords
		}
		logger.Infof("scoring %d domains with %d keywords", len(domains), len(keywords))

		printer := newProgressPrinter(len(domains), "score")
		printer.Start()

		scorer := score.NewScorer(cliCfg.Nameserver)
		results, err := scorer.ScoreAll(cmd.Context(), domains, keywords, runner.Config{
			Workers:    cliCfg.Workers,
			OnProgress: func(completed, total int) { printer.Set(completed) },
		})
		printer.Stop()
		if err != nil {
			return err
		}

		out := csvio.Outfile(input, "score")
		outRows := make([]map[string]string, 0, len(results))
		for _, r := range results {
			outRows = append(outRows, map[string]string{
				"fqdn":  r.Domain,
				"score": strconv.Itoa(r.Score),
				"label": r.Label,
			})
		}
		if err := csvio.Write(out, outRows, []string{"fqdn", "score", "label"}); err != nil {
			return err
		}

		for _, r := range results {
			if r.Score >= 60 {
				fmt.Printf("  %3d  %-12s %s\n", r.Score, formatLabel(r.Label), r.Domain)
			}
		}
		fmt.Printf("%d domains scored -> %s\n", len(results), out)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringSliceVar(&scoreKeywords, "keywords", nil, "organization keywords (default from config file)")
}
