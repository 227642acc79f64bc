// Package vuln implements the passive vulnerability enrichment pipeline:
// per-IP host-intelligence lookups with a disk-backed response cache and an
// externally imposed minimum spacing between live queries.
//
// The scan is passive: only data already observed by the intelligence
// source is fetched, no packets ever reach the target itself.
package vuln

// HostRecord is the enrichment output for one IP. Records are produced
// fresh per run and never mutated afterwards; the IP is unique within a
// run.
type HostRecord struct {
	IP      string            `json:"ip"`
	Domain  string            `json:"domain"` // first domain observed for this IP
	Ports   []int             `json:"ports"`
	Vulns   []string          `json:"vulns"`
	Banners map[string]string `json:"banners"` // dotted field path -> first value seen
	OS      string            `json:"os"`
	Org     string            `json:"org"`
	ASN     string            `json:"asn"`
}

// BannerFields is the fixed ordered list of dotted banner paths extracted
// from each service banner. Order matters: it is also the CSV column order.
var BannerFields = []string{
	"product",
	"version",
	"http.title",
	"ssh.banner",
	"ssl.cipher",
	"ssl.cert.subject.CN",
}
