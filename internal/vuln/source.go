package vuln

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	sharederrors "github.com/DavidOteria/OcculusINT/internal/shared/errors"
)

const (
	shodanBaseURL     = "https://api.shodan.io"
	internetDBBaseURL = "https://internetdb.shodan.io"
)

// Source is a host-intelligence backend queried by IP. Host returns the
// raw JSON response so the cache stores exactly what the source sent.
type Source interface {
	Host(ctx context.Context, ip string) (json.RawMessage, error)
	Name() string
}

// ShodanSource queries the Shodan Host API. Requires an API key; every
// membership plan is limited to one request per second, which the Enricher
// enforces.
type ShodanSource struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewShodanSource returns a keyed source, or ErrMissingAPIKey when the key
// is empty (fatal configuration failure, detected before any network call).
func NewShodanSource(apiKey string) (*ShodanSource, error) {
	if apiKey == "" {
		return nil, sharederrors.ErrMissingAPIKey
	}
	return &ShodanSource{
		APIKey:  apiKey,
		BaseURL: shodanBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *ShodanSource) Name() string { return "shodan" }

// Host fetches /shodan/host/{ip} without history.
func (s *ShodanSource) Host(ctx context.Context, ip string) (json.RawMessage, error) {
	if net.ParseIP(ip) == nil {
		return nil, fmt.Errorf("%s: %w", ip, sharederrors.ErrInvalidIP)
	}
	url := fmt.Sprintf("%s/shodan/host/%s?key=%s&history=false", s.BaseURL, ip, s.APIKey)
	return fetchJSON(ctx, s.Client, url)
}

// InternetDBSource queries the free, unauthenticated InternetDB endpoint.
// It returns only open ports and vulnerability identifiers; responses are
// normalized to the Shodan shape so downstream parsing stays identical.
type InternetDBSource struct {
	BaseURL string
	Client  *http.Client
}

// NewInternetDBSource returns the degraded keyless source.
func NewInternetDBSource() *InternetDBSource {
	return &InternetDBSource{
		BaseURL: internetDBBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *InternetDBSource) Name() string { return "internetdb" }

// Host fetches /{ip} and reshapes the reduced response.
func (s *InternetDBSource) Host(ctx context.Context, ip string) (json.RawMessage, error) {
	if net.ParseIP(ip) == nil {
		return nil, fmt.Errorf("%s: %w", ip, sharederrors.ErrInvalidIP)
	}
	raw, err := fetchJSON(ctx, s.Client, fmt.Sprintf("%s/%s", s.BaseURL, ip))
	if err != nil {
		return nil, err
	}

	var reduced struct {
		Ports []int    `json:"ports"`
		Vulns []string `json:"vulns"`
	}
	if err := json.Unmarshal(raw, &reduced); err != nil {
		return nil, fmt.Errorf("parse internetdb response: %w", err)
	}

	normalized := hostResponse{
		IPStr: ip,
		Ports: reduced.Ports,
		Vulns: reduced.Vulns,
		Data:  []map[string]interface{}{},
	}
	return json.Marshal(normalized)
}

func fetchJSON(ctx context.Context, client *http.Client, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, sharederrors.ErrHostNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("source returned invalid JSON")
	}
	return body, nil
}
