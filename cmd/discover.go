package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DavidOteria/OcculusINT/internal/csvio"
	"github.com/DavidOteria/OcculusINT/internal/discover"
)

var discoverOut string

var discoverCmd = &cobra.Command{
	Use:   "discover <keyword>",
	Short: "Find candidate domains via certificate transparency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword := args[0]
		out := discoverOut
		if out == "" {
			out = fmt.Sprintf("%s_domains.csv", keyword)
		}

		client := discover.NewCrtShClient(logger)
		logger.Infof("querying certificate transparency for %q", keyword)
		domains := client.Search(cmd.Context(), keyword)

		rows := make([]map[string]string, 0, len(domains))
		for _, d := range domains {
			rows = append(rows, map[string]string{"fqdn": d})
		}
		if err := csvio.Write(out, rows, []string{"fqdn"}); err != nil {
			return err
		}

		fmt.Printf("%d domains discovered -> %s\n", len(domains), out)
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverOut, "out", "", "output CSV (default <keyword>_domains.csv)")
}
