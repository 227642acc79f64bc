package vuln

import (
	"encoding/json"
	"fmt"
	"strings"
)

// hostResponse is the subset of the host-intelligence JSON we consume. The
// Data array holds one loosely-typed banner object per observed service.
type hostResponse struct {
	IPStr string                   `json:"ip_str"`
	Ports []int                    `json:"ports"`
	Vulns []string                 `json:"vulns"`
	OS    string                   `json:"os"`
	Org   string                   `json:"org"`
	ASN   string                   `json:"asn"`
	Data  []map[string]interface{} `json:"data"`
}

// extractNested walks a dotted path ("ssl.cert.subject.CN") through nested
// JSON objects. Returns nil when any step is missing or not an object.
func extractNested(source map[string]interface{}, dottedPath string) interface{} {
	var cur interface{} = source
	for _, part := range strings.Split(dottedPath, ".") {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = obj[part]
		if cur == nil {
			return nil
		}
	}
	return cur
}

// extractBanners scans the banner array and keeps, per field, the first
// non-empty value found across all banners. Scanning stops early once every
// field has been filled.
func extractBanners(banners []map[string]interface{}, fields []string) map[string]string {
	found := make(map[string]string, len(fields))
	for _, banner := range banners {
		for _, field := range fields {
			if _, done := found[field]; done {
				continue
			}
			if val := extractNested(banner, field); val != nil {
				if s := stringify(val); s != "" {
					found[field] = s
				}
			}
		}
		if len(found) == len(fields) {
			break
		}
	}
	return found
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; ports and versions read better
		// without a trailing ".000000".
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		// Composite values (the negotiated-cipher object, certificate
		// subjects) keep their inner strings visible to substring checks
		// downstream.
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// parseHost turns a raw cached/live response into a HostRecord.
func parseHost(ip, domain string, raw json.RawMessage) (HostRecord, error) {
	var resp hostResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return HostRecord{}, fmt.Errorf("parse host response for %s: %w", ip, err)
	}

	return HostRecord{
		IP:      ip,
		Domain:  domain,
		Ports:   resp.Ports,
		Vulns:   resp.Vulns,
		Banners: extractBanners(resp.Data, BannerFields),
		OS:      resp.OS,
		Org:     resp.Org,
		ASN:     resp.ASN,
	}, nil
}
