package vuln

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}

	if _, ok := cache.Get("10.0.0.1"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	raw := json.RawMessage(`{"ip_str":"10.0.0.1","ports":[80]}`)
	if err := cache.Put("10.0.0.1", raw); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := cache.Get("10.0.0.1")
	if !ok {
		t.Fatal("Get after Put reported a miss")
	}
	if string(got) != string(raw) {
		t.Errorf("Get = %s, want %s", got, raw)
	}
}

func TestCacheRemovesCorruptEntries(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenCache(dir)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}

	path := filepath.Join(dir, "10.0.0.2.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, ok := cache.Get("10.0.0.2"); ok {
		t.Error("corrupt entry reported as a hit")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestOpenCacheCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	if _, err := OpenCache(dir); err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("cache directory not created: %v", err)
	}
}
