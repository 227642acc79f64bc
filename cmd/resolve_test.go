package cmd

import (
	"reflect"
	"testing"
)

func TestDomainColumn(t *testing.T) {
	rows := []map[string]string{
		{"fqdn": "a.example.com"},
		// alternative column name
		{"domain": "b.example.com"},
		// skipped
		{"fqdn": "", "domain": ""},
		{"other": "ignored"},
	}
	got := domainColumn(rows)
	want := []string{"a.example.com", "b.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("domainColumn = %v, want %v", got, want)
	}
}
