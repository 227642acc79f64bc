package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DavidOteria/OcculusINT/internal/csvio"
	"github.com/DavidOteria/OcculusINT/internal/discover"
	"github.com/DavidOteria/OcculusINT/internal/probe"
	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

var resolveVerifyPort int

var resolveCmd = &cobra.Command{
	Use:   "resolve <domains.csv>",
	Short: "Resolve discovered domains to IP addresses",
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

		e := discover.NewEnumerator(cliCfg.Nameserver, cliCfg.Workers)
		resolved, err := e.ResolveAll(cmd.Context(), domains)
		if err != nil {
			return err
		}

		columns := []string{"domain", "ip"}
		outRows := make([]map[string]string, 0, len(resolved))
		for _, r := range resolved {
			outRows = append(outRows, map[string]string{"domain": r.Domain, "ip": r.IP})
		}

		// Optional reachability column: does the resolved IP accept TCP on
		// the given port.
		if resolveVerifyPort > 0 {
			columns = append(columns, "reachable")
			tcp := &probe.TCPProbe{Timeout: constants.TCPTimeout}
			for i, r := range resolved {
				ok := tcp.IsReachable(cmd.Context(), r.IP, resolveVerifyPort)
				outRows[i]["reachable"] = strconv.FormatBool(ok)
			}
		}

		out := csvio.Outfile(input, "resolved")
		if err := csvio.Write(out, outRows, columns); err != nil {
			return err
		}

		fmt.Printf("%d/%d domains resolved -> %s\n", len(resolved), len(domains), out)
		return nil
	},
}

// domainColumn pulls the domain names out of pipeline CSV rows, accepting
// either column name the steps use.
func domainColumn(rows []map[string]string) []string {
	domains := make([]string, 0, len(rows))
	for _, row := range rows {
		d := row["fqdn"]
		if d == "" {
			d = row["domain"]
		}
		if d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

func init() {
	resolveCmd.Flags().IntVar(&resolveVerifyPort, "verify-port", 0, "also test TCP reachability of this port (0 disables)")
}
