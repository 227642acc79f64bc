package probe

import (
	"context"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// Resolver performs DNS queries against an explicit upstream nameserver
// instead of the system resolver, so results are reproducible across hosts.
type Resolver struct {
	Nameserver string        // host:port, e.g. "8.8.8.8:53"
	Timeout    time.Duration // per-query bound
}

// NewResolver returns a Resolver with defaults applied.
func NewResolver(nameserver string) *Resolver {
	if nameserver == "" {
		nameserver = constants.DefaultNameserver
	}
	return &Resolver{
		Nameserver: nameserver,
		Timeout:    constants.DNSTimeout,
	}
}

// LookupA resolves the first A record for domain. The second return value is
// false when the domain does not resolve; this is the gating signal for the
// risk scorer, so "unresolved" must stay distinguishable from an empty IP.
func (r *Resolver) LookupA(ctx context.Context, domain string) (string, bool) {
	in, ok := r.exchange(ctx, domain, dns.TypeA)
	if !ok {
		return "", false
	}
	for _, rr := range in.Answer {
		if a, isA := rr.(*dns.A); isA {
			return a.A.String(), true
		}
	}
	return "", false
}

// SOAMname returns the MNAME (primary nameserver) from the domain's SOA
// record, without the trailing dot. Empty string is the neutral default.
func (r *Resolver) SOAMname(ctx context.Context, domain string) string {
	in, ok := r.exchange(ctx, domain, dns.TypeSOA)
	if !ok {
		return ""
	}
	// The SOA may come back in the authority section for subdomains.
	for _, section := range [][]dns.RR{in.Answer, in.Ns} {
		for _, rr := range section {
			if soa, isSOA := rr.(*dns.SOA); isSOA {
				return strings.TrimSuffix(soa.Ns, ".")
			}
		}
	}
	return ""
}

func (r *Resolver) exchange(ctx context.Context, domain string, qtype uint16) (*dns.Msg, bool) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = constants.DNSTimeout
	}

	client := &dns.Client{Timeout: timeout}
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	in, _, err := client.ExchangeContext(queryCtx, msg, r.Nameserver)
	if err != nil || in == nil || in.Rcode != dns.RcodeSuccess {
		return nil, false
	}
	return in, true
}
