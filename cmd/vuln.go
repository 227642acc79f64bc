package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DavidOteria/OcculusINT/internal/csvio"
	"github.com/DavidOteria/OcculusINT/internal/cvss"
	"github.com/DavidOteria/OcculusINT/internal/score"
	sharederrors "github.com/DavidOteria/OcculusINT/internal/shared/errors"
	"github.com/DavidOteria/OcculusINT/internal/vuln"
)

var (
	vulnUseInternetDB bool
	vulnForceRefresh  bool
)

// vulnColumns is the enrichment CSV layout: identity, findings, banner
// fields in extraction order, then host metadata.
var vulnColumns = append(append([]string{"domain", "ip", "ports", "vulns"}, vuln.BannerFields...), "os", "org", "asn")

var vulnCmd = &cobra.Command{
	Use:   "vuln <resolved.csv>",
	Short: "Passively enrich hosts with known vulnerabilities and score them",
	Long: `Queries a host-intelligence source (Shodan with an API key, or the free
InternetDB endpoint) for every unique IP in the input, caches responses on
disk, and writes two CSVs: the raw enrichment (*_vuln.csv) and the
CVSS-weighted security scores (*_score.csv).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		input := args[0]

		rows, err := csvio.Read(input)
		if err != nil {
			return err
		}
		targets := vuln.BuildTargets(rows, logger)
		if len(targets) == 0 {
			return fmt.Errorf("%s: %w", input, sharederrors.ErrMissingIPColumn)
		}
		fmt.Printf("unique IPs to query: %d\n", len(targets))

		var source vuln.Source
		if vulnUseInternetDB {
			source = vuln.NewInternetDBSource()
		} else {
			source, err = vuln.NewShodanSource(cliCfg.ShodanAPIKey)
			if err != nil {
				return fmt.Errorf("%w (set SHODAN_API_KEY or use --internetdb)", err)
			}
		}
		logger.Infof("host intelligence source: %s", source.Name())

		cache, err := vuln.OpenCache(cliCfg.HostCacheDir)
		if err != nil {
			return fmt.Errorf("failed to open host cache: %w", err)
		}

		printer := newProgressPrinter(len(targets), "vuln")
		printer.Start()

		enricher := vuln.NewEnricher(source, cache, logger)
		enricher.OnProgress = func(done, total int) { printer.Set(done) }
		records, err := enricher.Enrich(ctx, targets)
		printer.Stop()
		if err != nil {
			return err
		}

		vulnOut := csvio.Outfile(input, "vuln")
		if err := csvio.Write(vulnOut, recordRows(records), vulnColumns); err != nil {
			return err
		}
		fmt.Printf("%d hosts enriched -> %s\n", len(records), vulnOut)

		// Severity data is mandatory for the scoring pass.
		severities := cvss.New(cliCfg.CVSSCacheDir)
		if err := severities.Load(ctx, vulnForceRefresh); err != nil {
			return fmt.Errorf("failed to load severity data: %w", err)
		}
		logger.Infof("severity mapping loaded: %d CVEs", severities.Len())

		scoreOut := csvio.Outfile(vulnOut, "score")
		if err := csvio.Write(scoreOut, scoreRows(records, severities), []string{
			"domain", "ip",
			"tls_score", "vuln_score", "exposure_score", "hygiene_score",
			"total_score",
		}); err != nil {
			return err
		}
		fmt.Printf("security scores -> %s\n", scoreOut)
		return nil
	},
}

func recordRows(records []vuln.HostRecord) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		ports := make([]string, len(r.Ports))
		for i, p := range r.Ports {
			ports[i] = strconv.Itoa(p)
		}
		row := map[string]string{
			"domain": r.Domain,
			"ip":     r.IP,
			"ports":  strings.Join(ports, ";"),
			"vulns":  strings.Join(r.Vulns, ";"),
			"os":     r.OS,
			"org":    r.Org,
			"asn":    r.ASN,
		}
		for field, value := range r.Banners {
			row[field] = value
		}
		rows = append(rows, row)
	}
	return rows
}

func scoreRows(records []vuln.HostRecord, sev score.SeverityLookup) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		b := score.Security(score.HostFacts{
			Cipher: r.Banners["ssl.cipher"],
			Vulns:  r.Vulns,
			Ports:  r.Ports,
			Title:  r.Banners["http.title"],
		}, sev)
		rows = append(rows, map[string]string{
			"domain":         r.Domain,
			"ip":             r.IP,
			"tls_score":      strconv.Itoa(b.TLS),
			"vuln_score":     strconv.Itoa(b.Vuln),
			"exposure_score": strconv.Itoa(b.Exposure),
			"hygiene_score":  strconv.Itoa(b.Hygiene),
			"total_score":    strconv.Itoa(b.Total()),
		})
	}
	return rows
}

func init() {
	vulnCmd.Flags().BoolVar(&vulnUseInternetDB, "internetdb", false, "use the free InternetDB source instead of Shodan")
	vulnCmd.Flags().BoolVar(&vulnForceRefresh, "refresh-cvss", false, "force a fresh severity feed download")
}
