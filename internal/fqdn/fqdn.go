// Package fqdn provides helpers for working with fully qualified domain
// names: normalization, registrable-root derivation, and subdomain tests.
package fqdn

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Normalize strips scheme, path, and port from a target string and lowercases
// the remaining hostname. Inputs like "https://API.Example.com:8443/login"
// become "api.example.com".
func Normalize(target string) string {
	host := strings.TrimSpace(strings.ToLower(target))
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "https://")
	host = strings.Split(host, "/")[0]
	host = strings.Split(host, ":")[0]
	return strings.TrimSuffix(host, ".")
}

// Root returns the registrable domain (second-level name plus public suffix)
// for the given FQDN, e.g. "api.example.co.uk" -> "example.co.uk".
// If the public-suffix derivation fails (single labels, raw suffixes), the
// normalized input is returned unchanged.
func Root(domain string) string {
	host := Normalize(domain)
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return root
}

// IsSubdomain reports whether the FQDN differs from its registrable root.
// "www" prefixes count as subdomains here; the report layer decides how to
// group them.
func IsSubdomain(domain string) bool {
	host := Normalize(domain)
	return host != Root(host)
}

// HasSuffix reports whether the domain ends with any of the given TLD
// suffixes (each including the leading dot).
func HasSuffix(domain string, suffixes []string) bool {
	host := Normalize(domain)
	for _, s := range suffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}
