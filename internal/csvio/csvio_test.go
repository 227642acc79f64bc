package csvio

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	sharederrors "github.com/DavidOteria/OcculusINT/internal/shared/errors"
)

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.csv")
	rows := []map[string]string{
		{"domain": "a.example.com", "ip": "192.0.2.1", "score": "80"},
		{"domain": "b.example.com", "ip": "192.0.2.2", "score": "35"},
	}
	columns := []string{"domain", "ip", "score"}

	if err := Write(path, rows, columns); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("round trip = %v, want %v", got, rows)
	}
}

func TestWriteFillsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.csv")
	rows := []map[string]string{
		{"domain": "a.example.com", "extra": "dropped"},
	}
	if err := Write(path, rows, []string{"domain", "ip"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []map[string]string{{"domain": "a.example.com", "ip": ""}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read = %v, want %v", got, want)
	}
}

func TestReadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Read(path); !errors.Is(err, sharederrors.ErrEmptyInput) {
		t.Errorf("Read error = %v, want ErrEmptyInput", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOutfile(t *testing.T) {
	tests := []struct {
		in     string
		suffix string
		want   string
	}{
		{"corp_domains_resolved.csv", "vuln", "corp_domains_vuln.csv"},
		{"targets/acme_list.csv", "score", filepath.Join("targets", "acme_score.csv")},
		{"plain.csv", "vuln", "plain_vuln.csv"},
		{"targets/corp_vuln.csv", "score", filepath.Join("targets", "corp_score.csv")},
	}
	for _, tt := range tests {
		if got := Outfile(tt.in, tt.suffix); got != tt.want {
			t.Errorf("Outfile(%q, %q) = %q, want %q", tt.in, tt.suffix, got, tt.want)
		}
	}
}
