package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DavidOteria/OcculusINT/internal/csvio"
	"github.com/DavidOteria/OcculusINT/internal/discover"
)

var (
	enumWordlist string
	enumOut      string
)

var enumCmd = &cobra.Command{
	Use:   "enum <root-domain>",
	Short: "Brute-force subdomains of a root domain from a wordlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		out := enumOut
		if out == "" {
			out = fmt.Sprintf("%s_subdomains.csv", root)
		}

		words, err := discover.LoadWordlist(enumWordlist)
		if err != nil {
			return fmt.Errorf("failed to load wordlist: %w", err)
		}
		logger.Infof("enumerating %d candidates under %s", len(words), root)

		e := discover.NewEnumerator(cliCfg.Nameserver, cliCfg.Workers)
		found, err := e.Enumerate(cmd.Context(), root, words)
		if err != nil {
			return err
		}

		rows := make([]map[string]string, 0, len(found))
		for _, d := range found {
			rows = append(rows, map[string]string{"fqdn": d})
		}
		if err := csvio.Write(out, rows, []string{"fqdn"}); err != nil {
			return err
		}

		fmt.Printf("%d/%d subdomains resolved -> %s\n", len(found), len(words), out)
		return nil
	},
}

func init() {
	enumCmd.Flags().StringVar(&enumWordlist, "wordlist", "", "wordlist file, one label per line")
	enumCmd.Flags().StringVar(&enumOut, "out", "", "output CSV (default <root>_subdomains.csv)")
	_ = enumCmd.MarkFlagRequired("wordlist")
}
