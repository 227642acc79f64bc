// Package discover finds candidate domains for an organization: certificate
// transparency search by keyword, and wordlist-driven subdomain enumeration
// resolved through the concurrent runner.
package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// DefaultCrtShBaseURL is the public certificate transparency search
// frontend.
const DefaultCrtShBaseURL = "https://crt.sh"

var domainPattern = regexp.MustCompile(`[\w.-]+\.\w+`)

// CrtShClient queries crt.sh for certificates whose names contain a
// keyword. crt.sh is slow under load, hence the generous timeout.
type CrtShClient struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.SugaredLogger
}

// NewCrtShClient returns a client against the public crt.sh instance.
func NewCrtShClient(logger *zap.SugaredLogger) *CrtShClient {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CrtShClient{
		BaseURL: DefaultCrtShBaseURL,
		Client:  &http.Client{Timeout: constants.CrtShTimeout},
		Logger:  logger,
	}
}

type crtShEntry struct {
	NameValue string `json:"name_value"`
}

// Search returns the sorted unique domain names found in certificates
// matching keyword. Any transport or decode failure returns an empty list:
// discovery is best-effort and the pipeline continues without it.
func (c *CrtShClient) Search(ctx context.Context, keyword string) []string {
	// %keyword% matches the keyword anywhere in the certificate name.
	endpoint := fmt.Sprintf("%s/?q=%s&output=json", c.BaseURL, url.QueryEscape("%"+keyword+"%"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.Logger.Warnf("crt.sh request failed: %v", err)
		return nil
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		c.Logger.Warnf("crt.sh query failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Logger.Warnf("crt.sh returned status %d", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Warnf("crt.sh read failed: %v", err)
		return nil
	}

	var entries []crtShEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		c.Logger.Warnf("crt.sh returned unparseable JSON: %v", err)
		return nil
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		// name_value can hold several names separated by newlines, plus
		// wildcard prefixes; the pattern pulls out the plain names.
		for _, name := range domainPattern.FindAllString(entry.NameValue, -1) {
			// "*.mail.example" matches as ".mail.example".
			name = strings.TrimLeft(name, ".")
			if name != "" {
				seen[name] = true
			}
		}
	}

	domains := make([]string, 0, len(seen))
	for d := range seen {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
