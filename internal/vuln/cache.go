package vuln

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// Cache stores one raw JSON response per IP so repeated runs do not burn
// API quota. Files are keyed by IP, so concurrent writers for distinct IPs
// never conflict.
type Cache struct {
	dir string
}

// OpenCache creates (if needed) and opens a response cache rooted at dir.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		dir = constants.HostCacheDir
	}
	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Get returns the cached raw response for ip. A corrupt cache file is
// removed and reported as a miss so the IP gets re-queried.
func (c *Cache) Get(ip string) (json.RawMessage, bool) {
	path := c.path(ip)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if !json.Valid(data) {
		os.Remove(path)
		return nil, false
	}
	return data, true
}

// Put persists the raw response for ip, overwriting any previous entry.
func (c *Cache) Put(ip string, raw json.RawMessage) error {
	return os.WriteFile(c.path(ip), raw, constants.DefaultFilePerm)
}

func (c *Cache) path(ip string) string {
	return filepath.Join(c.dir, ip+".json")
}
