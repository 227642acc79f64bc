package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, rdap, geo http.HandlerFunc) *Client {
	t.Helper()
	c := NewClient(zap.NewNop().Sugar())
	if rdap != nil {
		s := httptest.NewServer(rdap)
		t.Cleanup(s.Close)
		c.RDAPBaseURL = s.URL
	} else {
		c.RDAPBaseURL = "http://127.0.0.1:0"
	}
	if geo != nil {
		s := httptest.NewServer(geo)
		t.Cleanup(s.Close)
		c.GeoBaseURL = s.URL
	} else {
		c.GeoBaseURL = "http://127.0.0.1:0"
	}
	return c
}

func TestEnrichCombinesLookups(t *testing.T) {
	rdap := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ip/203.0.113.9" {
			t.Errorf("rdap path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"name":"AMAZON-02","handle":"NET-203-0-113-0-1"}`))
	}
	geo := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/203.0.113.9" {
			t.Errorf("geo path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","country":"Ireland","regionName":"Leinster","city":"Dublin","as":"AS16509 Amazon.com, Inc."}`))
	}

	info := newTestClient(t, rdap, geo).Enrich(context.Background(), "app.example.com", "203.0.113.9")

	if info.Domain != "app.example.com" || info.IP != "203.0.113.9" {
		t.Errorf("identity = %q/%q", info.Domain, info.IP)
	}
	if info.ASN != "AS16509" {
		t.Errorf("asn = %q", info.ASN)
	}
	if info.NetworkName != "AMAZON-02" {
		t.Errorf("network name = %q", info.NetworkName)
	}
	if info.Country != "Ireland" || info.Region != "Leinster" || info.City != "Dublin" {
		t.Errorf("geo = %q/%q/%q", info.Country, info.Region, info.City)
	}
	if info.Provider != "AWS" {
		t.Errorf("provider = %q", info.Provider)
	}
}

func TestEnrichSurvivesFailedLookups(t *testing.T) {
	// Both endpoints unreachable: the row still comes back, just empty.
	info := newTestClient(t, nil, nil).Enrich(context.Background(), "down.example.com", "198.51.100.1")

	if info.Domain != "down.example.com" || info.IP != "198.51.100.1" {
		t.Errorf("identity = %q/%q", info.Domain, info.IP)
	}
	if info.ASN != "" || info.NetworkName != "" || info.Country != "" {
		t.Errorf("expected empty context fields, got %+v", info)
	}
	if info.Provider != "Other" {
		t.Errorf("provider = %q, want Other", info.Provider)
	}
}

func TestGeolocationFailureStatus(t *testing.T) {
	geo := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}
	c := newTestClient(t, nil, geo)

	country, region, city, as := c.Geolocation(context.Background(), "10.0.0.1")
	if country != "" || region != "" || city != "" || as != "" {
		t.Errorf("got %q/%q/%q/%q for failed lookup", country, region, city, as)
	}
}

func TestNetworkNameFallsBackToHandle(t *testing.T) {
	rdap := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"name":"","handle":"NET-198-51-100-0-1"}`))
	}
	c := newTestClient(t, rdap, nil)

	if got := c.NetworkName(context.Background(), "198.51.100.7"); got != "NET-198-51-100-0-1" {
		t.Errorf("network name = %q", got)
	}
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		as      string
		netname string
		want    string
	}{
		{"AS16509 Amazon.com, Inc.", "", "AWS"},
		{"", "AMAZON-02", "AWS"},
		{"AS15169 Google LLC", "", "GCP"},
		{"", "GOOGL-CLOUD", "GCP"},
		{"AS8075 Microsoft Corporation", "", "Azure"},
		{"", "AZURE-EASTUS", "Azure"},
		{"AS16276 OVH SAS", "", "OVH"},
		{"AS3215 Orange S.A.", "FR-ORANGE", "Other"},
		{"", "", "Other"},
	}
	for _, tt := range tests {
		if got := DetectProvider(tt.as, tt.netname); got != tt.want {
			t.Errorf("DetectProvider(%q, %q) = %q, want %q", tt.as, tt.netname, got, tt.want)
		}
	}
}

func TestEnrichAllReportsProgress(t *testing.T) {
	geo := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"success","country":"France","regionName":"IDF","city":"Paris","as":"AS16276 OVH SAS"}`))
	}
	rdap := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"name":"OVH-NET"}`))
	}
	c := newTestClient(t, rdap, geo)

	var calls int
	c.OnProgress = func(done, total int) {
		calls++
		if total != 2 {
			t.Errorf("total = %d", total)
		}
	}

	infos, err := c.EnrichAll(context.Background(), []Pair{
		{Domain: "a.example.com", IP: "198.51.100.1"},
		{Domain: "b.example.com", IP: "198.51.100.2"},
	})
	if err != nil {
		t.Fatalf("EnrichAll: %v", err)
	}
	if len(infos) != 2 || calls != 2 {
		t.Errorf("infos = %d, progress calls = %d", len(infos), calls)
	}
	if infos[0].Provider != "OVH" {
		t.Errorf("provider = %q", infos[0].Provider)
	}
}
