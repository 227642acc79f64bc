package vuln

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sharederrors "github.com/DavidOteria/OcculusINT/internal/shared/errors"
)

func TestNewShodanSourceRequiresKey(t *testing.T) {
	if _, err := NewShodanSource(""); !errors.Is(err, sharederrors.ErrMissingAPIKey) {
		t.Errorf("NewShodanSource(\"\") error = %v, want ErrMissingAPIKey", err)
	}
	if _, err := NewShodanSource("token"); err != nil {
		t.Errorf("NewShodanSource(token) error = %v", err)
	}
}

func TestShodanSourceHost(t *testing.T) {
	var gotPath, gotKey, gotHistory string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotHistory = r.URL.Query().Get("history")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip_str":"203.0.113.5","ports":[443],"vulns":["CVE-2023-0001"]}`))
	}))
	defer server.Close()

	src, err := NewShodanSource("secret")
	if err != nil {
		t.Fatalf("NewShodanSource: %v", err)
	}
	src.BaseURL = server.URL

	raw, err := src.Host(context.Background(), "203.0.113.5")
	if err != nil {
		t.Fatalf("Host: %v", err)
	}
	if gotPath != "/shodan/host/203.0.113.5" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("key = %q", gotKey)
	}
	if gotHistory != "false" {
		t.Errorf("history = %q", gotHistory)
	}
	if !json.Valid(raw) {
		t.Error("response is not valid JSON")
	}
}

func TestShodanSourceHostNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"No information available"}`, http.StatusNotFound)
	}))
	defer server.Close()

	src, err := NewShodanSource("secret")
	if err != nil {
		t.Fatalf("NewShodanSource: %v", err)
	}
	src.BaseURL = server.URL

	if _, err := src.Host(context.Background(), "203.0.113.200"); !errors.Is(err, sharederrors.ErrHostNotFound) {
		t.Errorf("Host error = %v, want ErrHostNotFound", err)
	}
}

func TestSourcesRejectInvalidIP(t *testing.T) {
	shodan, err := NewShodanSource("secret")
	if err != nil {
		t.Fatalf("NewShodanSource: %v", err)
	}
	if _, err := shodan.Host(context.Background(), "not-an-ip"); !errors.Is(err, sharederrors.ErrInvalidIP) {
		t.Errorf("shodan error = %v, want ErrInvalidIP", err)
	}
	if _, err := NewInternetDBSource().Host(context.Background(), "999.999.1.1"); !errors.Is(err, sharederrors.ErrInvalidIP) {
		t.Errorf("internetdb error = %v, want ErrInvalidIP", err)
	}
}

func TestInternetDBSourceNormalizesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/198.51.100.4" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip":"198.51.100.4","ports":[21,80],"vulns":["CVE-2022-1234"],"cpes":[],"hostnames":[],"tags":[]}`))
	}))
	defer server.Close()

	src := NewInternetDBSource()
	src.BaseURL = server.URL

	raw, err := src.Host(context.Background(), "198.51.100.4")
	if err != nil {
		t.Fatalf("Host: %v", err)
	}

	record, err := parseHost("198.51.100.4", "ftp.example.com", raw)
	if err != nil {
		t.Fatalf("parseHost: %v", err)
	}
	if len(record.Ports) != 2 || record.Ports[0] != 21 {
		t.Errorf("ports = %v", record.Ports)
	}
	if len(record.Vulns) != 1 || record.Vulns[0] != "CVE-2022-1234" {
		t.Errorf("vulns = %v", record.Vulns)
	}
	if len(record.Banners) != 0 {
		t.Errorf("banners = %v, want none for reduced source", record.Banners)
	}
}
