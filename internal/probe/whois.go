package probe

import (
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// WhoisProbe queries the WHOIS service for registrant details. WHOIS has no
// guaranteed schema; both methods degrade to their neutral defaults whenever
// the record is missing, unparseable, or redacted.
type WhoisProbe struct {
	Timeout time.Duration
}

func (p *WhoisProbe) client() *whois.Client {
	c := whois.NewClient()
	if p.Timeout > 0 {
		c.SetTimeout(p.Timeout)
	}
	return c
}

// Organization returns the registrant organization, or "" when unavailable.
func (p *WhoisProbe) Organization(domain string) string {
	raw, err := p.client().Whois(domain)
	if err != nil {
		return ""
	}
	info, err := whoisparser.Parse(raw)
	if err != nil {
		return ""
	}
	if info.Registrant != nil && info.Registrant.Organization != "" {
		return strings.TrimSpace(info.Registrant.Organization)
	}
	return ""
}
