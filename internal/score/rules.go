package score

import (
	"strings"

	"github.com/DavidOteria/OcculusINT/internal/fqdn"
	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// Signals carries the collected probe outputs for one domain. Every field
// holds its probe's neutral default when the underlying call failed, so rule
// evaluation never needs to distinguish "probe failed" from "signal absent".
type Signals struct {
	Domain        string   // lowercased FQDN
	Keywords      []string // lowercased target terms; may be empty
	Resolved      bool     // gating: A record exists
	IP            string   // first A record when resolved
	HTTPStatus    int      // 0 = no status
	HTTPSAlive    bool
	WhoisOrg      string // "" = unavailable
	SOAMname      string // "" = unavailable
	LanguageMatch bool   // page body mentions a target keyword
}

// Rule is one weighted condition of the risk table. Points accumulate for
// every matching rule before the final clamp.
type Rule struct {
	Name   string
	Points int
	Match  func(Signals) bool
}

// technicalTokens flag infrastructure or access-control naming that tends to
// mark internal or forgotten systems.
var technicalTokens = []string{"dev", "test", "beta", "vpn", "backup", "api", "secure", "auth", "admin"}

// businessTokens flag user-facing surfaces worth monitoring; only the first
// match counts.
var businessTokens = []string{"login", "client", "mobile", "intranet", "account", "portal"}

// untrustedTLDs are cheap registrations favoured by squatters.
var untrustedTLDs = []string{".xyz", ".top", ".click", ".site", ".club"}

// Rules is the risk table for domain scoring. The weights are part of the
// scoring contract; changing them changes what every historical score means.
var Rules = []Rule{
	{
		Name:   "technical token",
		Points: 25,
		Match: func(s Signals) bool {
			return containsAny(s.Domain, technicalTokens)
		},
	},
	{
		Name:   "business token",
		Points: 25,
		Match: func(s Signals) bool {
			return containsAny(s.Domain, businessTokens)
		},
	},
	{
		Name:   "untrusted TLD",
		Points: 40,
		Match: func(s Signals) bool {
			return fqdn.HasSuffix(s.Domain, untrustedTLDs)
		},
	},
	{
		Name:   "no HTTPS",
		Points: 30,
		Match: func(s Signals) bool {
			return !s.HTTPSAlive
		},
	},
	{
		Name:   "live but uncorrelated WHOIS",
		Points: 20,
		Match: func(s Signals) bool {
			return s.HTTPStatus == 200 && !containsAnyKeyword(s.WhoisOrg, s.Keywords)
		},
	},
	{
		Name:   "unrecognized SOA nameserver",
		Points: 10,
		Match: func(s Signals) bool {
			return s.SOAMname != "" && !containsAnyKeyword(s.SOAMname, s.Keywords)
		},
	},
	{
		Name:   "page language mismatch",
		Points: 5,
		Match: func(s Signals) bool {
			return !s.LanguageMatch
		},
	},
	{
		Name:   "unusually long name",
		Points: 10,
		Match: func(s Signals) bool {
			return len(s.Domain) > constants.LongDomainLength
		},
	},
}

// Evaluate sums the points of every matching rule without gating or
// clamping. Exposed separately so tests can exercise the table directly.
func Evaluate(rules []Rule, s Signals) int {
	total := 0
	for _, rule := range rules {
		if rule.Match(s) {
			total += rule.Points
		}
	}
	return total
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// containsAnyKeyword reports whether subject mentions any target keyword,
// case-insensitively. An empty keyword set never matches.
func containsAnyKeyword(subject string, keywords []string) bool {
	lower := strings.ToLower(subject)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
