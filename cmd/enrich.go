package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DavidOteria/OcculusINT/internal/csvio"
	"github.com/DavidOteria/OcculusINT/internal/enrich"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <resolved.csv>",
	Short: "Add ASN, geolocation and provider context to resolved hosts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		rows, err := csvio.Read(input)
		if err != nil {
			return err
		}

		pairs := make([]enrich.Pair, 0, len(rows))
		for _, row := range rows {
			if row["ip"] == "" {
				continue
			}
			pairs = append(pairs, enrich.Pair{Domain: row["domain"], IP: row["ip"]})
		}
		if len(pairs) == 0 {
			return fmt.Errorf("no ip column values in %s", input)
		}

		printer := newProgressPrinter(len(pairs), "enrich")
		printer.Start()

		client := enrich.NewClient(logger)
		client.OnProgress = func(done, total int) { printer.Set(done) }
		infos, err := client.EnrichAll(cmd.Context(), pairs)
		printer.Stop()
		if err != nil {
			return err
		}

		out := csvio.Outfile(input, "enriched")
		columns := []string{"domain", "ip", "asn", "network_name", "country", "region", "city", "provider"}
		outRows := make([]map[string]string, 0, len(infos))
		for _, info := range infos {
			outRows = append(outRows, map[string]string{
				"domain":       info.Domain,
				"ip":           info.IP,
				"asn":          info.ASN,
				"network_name": info.NetworkName,
				"country":      info.Country,
				"region":       info.Region,
				"city":         info.City,
				"provider":     info.Provider,
			})
		}
		if err := csvio.Write(out, outRows, columns); err != nil {
			return err
		}

		fmt.Printf("%d hosts enriched -> %s\n", len(infos), out)
		return nil
	},
}
