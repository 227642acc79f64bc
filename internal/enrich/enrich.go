// Package enrich adds network-context columns to resolved hosts: ASN and
// network name from public RDAP, coarse geolocation from ip-api.com, and a
// provider label derived from both. Every lookup is best-effort; a failed
// query leaves the corresponding fields empty instead of failing the row.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

const (
	// DefaultRDAPBaseURL is the IANA-operated RDAP bootstrap redirector.
	DefaultRDAPBaseURL = "https://rdap.org"
	// DefaultGeoBaseURL serves the free ip-api.com JSON endpoint. Plain
	// HTTP is what the free tier offers.
	DefaultGeoBaseURL = "http://ip-api.com"

	maxBodySize = 1 << 20
)

// Info is the enrichment result for one resolved host.
type Info struct {
	Domain      string `json:"domain"`
	IP          string `json:"ip"`
	ASN         string `json:"asn"`
	NetworkName string `json:"network_name"`
	Country     string `json:"country"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Provider    string `json:"provider"`
}

// Client performs the per-IP lookups. Base URLs are fields so tests can
// point them at local servers.
type Client struct {
	RDAPBaseURL string
	GeoBaseURL  string
	HTTP        *http.Client
	Logger      *zap.SugaredLogger

	// OnProgress, when set, is called after each row completes.
	OnProgress func(done, total int)
}

// NewClient returns a client with the public endpoints and default timeout.
func NewClient(logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		RDAPBaseURL: DefaultRDAPBaseURL,
		GeoBaseURL:  DefaultGeoBaseURL,
		HTTP:        &http.Client{Timeout: constants.HTTPTimeout},
		Logger:      logger,
	}
}

type rdapResponse struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

type geoResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
	AS         string `json:"as"`
}

// NetworkName returns the RDAP network name for ip, or "" when the lookup
// fails.
func (c *Client) NetworkName(ctx context.Context, ip string) string {
	var resp rdapResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/ip/%s", c.RDAPBaseURL, ip), &resp); err != nil {
		c.Logger.Debugf("rdap lookup failed for %s: %v", ip, err)
		return ""
	}
	if resp.Name != "" {
		return resp.Name
	}
	return resp.Handle
}

// Geolocation returns country, region, city and the raw AS description for
// ip. All fields are empty when the service reports a failure.
func (c *Client) Geolocation(ctx context.Context, ip string) (country, region, city, as string) {
	var resp geoResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/json/%s", c.GeoBaseURL, ip), &resp); err != nil {
		c.Logger.Debugf("geolocation failed for %s: %v", ip, err)
		return "", "", "", ""
	}
	if resp.Status != "success" {
		return "", "", "", ""
	}
	return resp.Country, resp.RegionName, resp.City, resp.AS
}

// Enrich fills in all context fields for one domain/IP pair.
func (c *Client) Enrich(ctx context.Context, domain, ip string) Info {
	netname := c.NetworkName(ctx, ip)
	country, region, city, as := c.Geolocation(ctx, ip)
	asn := asnFromDescription(as)

	return Info{
		Domain:      domain,
		IP:          ip,
		ASN:         asn,
		NetworkName: netname,
		Country:     country,
		Region:      region,
		City:        city,
		Provider:    DetectProvider(as, netname),
	}
}

// EnrichAll processes domain/IP pairs in order. It is sequential on purpose:
// the free geolocation tier throttles aggressive callers.
func (c *Client) EnrichAll(ctx context.Context, pairs []Pair) ([]Info, error) {
	infos := make([]Info, 0, len(pairs))
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			return infos, err
		}
		infos = append(infos, c.Enrich(ctx, p.Domain, p.IP))
		if c.OnProgress != nil {
			c.OnProgress(i+1, len(pairs))
		}
	}
	return infos, nil
}

// Pair is one resolved domain and its IP.
type Pair struct {
	Domain string
	IP     string
}

// DetectProvider classifies the hosting provider from the AS description
// and the RDAP network name.
func DetectProvider(as, networkName string) string {
	s := strings.ToLower(as + " " + networkName)
	switch {
	case strings.Contains(s, "amazon") || strings.Contains(s, "aws"):
		return "AWS"
	case strings.Contains(s, "google") || strings.Contains(s, "goog"):
		return "GCP"
	case strings.Contains(s, "microsoft") || strings.Contains(s, "azure"):
		return "Azure"
	case strings.Contains(s, "ovh"):
		return "OVH"
	default:
		return "Other"
	}
}

// asnFromDescription extracts the leading "AS64500" token from an ip-api
// AS description such as "AS64500 Example Hosting".
func asnFromDescription(as string) string {
	fields := strings.Fields(as)
	if len(fields) == 0 {
		return ""
	}
	if strings.HasPrefix(fields[0], "AS") {
		return fields[0]
	}
	return ""
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
