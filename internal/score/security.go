package score

import (
	"regexp"
	"strings"
)

// Sub-score maxima. The four together bound the total at 100.
const (
	TLSMax      = 25
	VulnMax     = 35
	ExposureMax = 25
	HygieneMax  = 15
)

// unknownSeverity stands in for CVEs the severity cache cannot resolve.
// Medium is deliberate: unknown is not safe, but assuming critical would
// let junk identifiers zero out every host.
const unknownSeverity = 5.0

// riskyPorts are services that should never face the Internet.
var riskyPorts = map[int]bool{21: true, 23: true, 445: true, 3389: true}

var weakCipherMarkers = []string{"RC4", "3DES", "DES"}

var defaultTitleRE = regexp.MustCompile(`(?i)default|test|welcome`)

// SeverityLookup resolves a CVE identifier to its base score. The bool is
// false when the identifier is malformed or absent from the mapping.
type SeverityLookup interface {
	Lookup(id string) (float64, bool)
}

// HostFacts is the slice of a host record the composite scorer reads.
type HostFacts struct {
	Cipher string   // negotiated TLS cipher suite banner, "" if none seen
	Vulns  []string // CVE identifiers
	Ports  []int    // open ports
	Title  string   // page title banner, "" if none seen
}

// Breakdown holds the four bounded sub-scores.
type Breakdown struct {
	TLS      int `json:"tls_score"`
	Vuln     int `json:"vuln_score"`
	Exposure int `json:"exposure_score"`
	Hygiene  int `json:"hygiene_score"`
}

// Total is the sum of the sub-scores, naturally bounded by 100.
func (b Breakdown) Total() int {
	return b.TLS + b.Vuln + b.Exposure + b.Hygiene
}

// Security computes the composite security breakdown for one host.
func Security(f HostFacts, sev SeverityLookup) Breakdown {
	return Breakdown{
		TLS:      tlsScore(f.Cipher),
		Vuln:     vulnScore(f.Vulns, sev),
		Exposure: exposureScore(f.Ports),
		Hygiene:  hygieneScore(f.Title),
	}
}

// frac scales a sub-score maximum by a band factor, truncating toward zero
// the way the score tables are defined.
func frac(max int, f float64) int {
	return int(float64(max) * f)
}

func tlsScore(cipher string) int {
	n := 0
	switch {
	case strings.Contains(cipher, "TLSv1.3"):
		n = TLSMax
	case strings.Contains(cipher, "TLSv1.2"):
		n = frac(TLSMax, 0.6)
	default:
		// Cipher present but neither marker, or no TLS at all.
		n = 0
	}
	for _, weak := range weakCipherMarkers {
		if strings.Contains(cipher, weak) {
			n -= 10
			break
		}
	}
	if n < 0 {
		n = 0
	}
	return n
}

func vulnScore(vulns []string, sev SeverityLookup) int {
	if len(vulns) == 0 {
		// No known vulnerabilities is full credit: absence of findings in
		// the passive source is treated as good, not as unknown.
		return VulnMax
	}

	worst := 0.0
	for _, cve := range vulns {
		severity, ok := sev.Lookup(cve)
		if !ok {
			severity = unknownSeverity
		}
		if severity > worst {
			worst = severity
		}
	}

	switch {
	case worst < 4.0:
		return frac(VulnMax, 0.7)
	case worst < 7.0:
		return frac(VulnMax, 0.4)
	case worst < 9.0:
		return frac(VulnMax, 0.15)
	default:
		return 0
	}
}

func exposureScore(ports []int) int {
	n := ExposureMax

	for _, p := range ports {
		if riskyPorts[p] {
			n -= 10
			break
		}
	}
	for _, p := range ports {
		if p < 1024 && p != 80 && p != 443 {
			n -= 5
			break
		}
	}

	if n < 0 {
		n = 0
	}
	return n
}

func hygieneScore(title string) int {
	if title != "" && !defaultTitleRE.MatchString(title) {
		return HygieneMax
	}
	return frac(HygieneMax, 0.33)
}
