// Package probe implements the independent external signal collectors that
// feed the risk scorer.
//
// Every probe follows the same contract: it is bounded by a timeout, it
// never returns an error to the caller, and any timeout, protocol failure,
// or missing data yields a documented neutral value. Probes report absence
// explicitly (an ok bool or a zero value defined as neutral) so scoring
// logic never has to guess whether a signal failed or was genuinely empty.
//
//   - Resolver: A-record and SOA-MNAME queries against an explicit upstream
//     nameserver (miekg/dns).
//   - TCPProbe: raw reachability of an ip:port pair.
//   - WhoisProbe: registrant organization and domain age via WHOIS.
//   - HTTPProbe: HTTP status, HTTPS liveness, and a page-language keyword
//     heuristic over the response body.
package probe
