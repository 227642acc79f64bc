// Package cvss maintains the CVE -> base-severity mapping used by the
// composite security scorer.
//
// The mapping is downloaded from the NVD bulk JSON feed (gzip), persisted as
// plain JSON on disk, and considered fresh for seven days based on the file
// modification time. When a refresh download fails but a disk copy exists,
// the stale copy is used; when no copy exists at all the failure is fatal,
// since every severity lookup would otherwise be meaningless.
//
// The cache is an explicitly constructed object, not a package-level
// singleton: callers own its lifecycle (New, Load/Refresh, Lookup, Close)
// and tests point it at a temp dir and a fake feed server.
package cvss

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
	sharederrors "github.com/DavidOteria/OcculusINT/internal/shared/errors"
)

// DefaultFeedURL is the NVD "recent" feed: the last 8 days of CVEs, enough
// for weekly scans without pulling the 80 MB historical export.
const DefaultFeedURL = "https://nvd.nist.gov/feeds/json/cve/1.1/nvdcve-1.1-recent.json.gz"

const mapFilename = "cvss_map.json"

// cvePattern is the only identifier shape the cache answers for; anything
// else always misses.
var cvePattern = regexp.MustCompile(`^CVE-\d{4}-\d{4,}$`)

// Cache is a process-wide severity mapping with a disk-backed copy.
// Safe for concurrent use; the first population is single-flighted so
// parallel scorers trigger at most one download.
type Cache struct {
	dir     string
	feedURL string
	maxAge  time.Duration
	client  *http.Client

	mu      sync.RWMutex
	mapping map[string]float64

	group singleflight.Group
}

// Option customizes a Cache.
type Option func(*Cache)

// WithFeedURL overrides the bulk feed endpoint (tests point this at a local
// server).
func WithFeedURL(url string) Option {
	return func(c *Cache) { c.feedURL = url }
}

// WithMaxAge overrides the disk-copy freshness window.
func WithMaxAge(age time.Duration) Option {
	return func(c *Cache) { c.maxAge = age }
}

// WithHTTPClient overrides the download client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// New creates a severity cache rooted at dir. Nothing is loaded until the
// first Load or Lookup.
func New(dir string, opts ...Option) *Cache {
	c := &Cache{
		dir:     dir,
		feedURL: DefaultFeedURL,
		maxAge:  constants.CVSSMaxAge,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load populates the in-memory mapping. With force false an existing
// in-memory copy is kept as-is; otherwise the disk copy is used when fresh,
// and the feed is downloaded when the copy is missing, stale, or force is
// true. A failed download falls back to any existing disk copy; with no
// disk copy the error is fatal.
func (c *Cache) Load(ctx context.Context, force bool) error {
	c.mu.RLock()
	loaded := c.mapping != nil
	c.mu.RUnlock()
	if loaded && !force {
		return nil
	}

	key := "load"
	if force {
		key = "load-force"
	}
	_, err, _ := c.group.Do(key, func() (interface{}, error) {
		return nil, c.populate(ctx, force)
	})
	return err
}

// Refresh forces a fresh download regardless of freshness.
func (c *Cache) Refresh(ctx context.Context) error {
	return c.Load(ctx, true)
}

// Lookup returns the base severity for id. The bool is false when id does
// not match the CVE pattern, the mapping is not loaded, or the identifier
// is absent: "unknown", as distinct from a zero severity.
func (c *Cache) Lookup(id string) (float64, bool) {
	if !cvePattern.MatchString(id) {
		return 0, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mapping == nil {
		return 0, false
	}
	v, ok := c.mapping[id]
	return v, ok
}

// Len reports the number of known identifiers. Zero before Load.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mapping)
}

// Close drops the in-memory mapping. The disk copy stays for the next run.
func (c *Cache) Close() error {
	c.mu.Lock()
	c.mapping = nil
	c.mu.Unlock()
	return nil
}

func (c *Cache) mapPath() string {
	return filepath.Join(c.dir, mapFilename)
}

func (c *Cache) diskFresh() bool {
	info, err := os.Stat(c.mapPath())
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < c.maxAge
}

func (c *Cache) populate(ctx context.Context, force bool) error {
	if force || !c.diskFresh() {
		mapping, err := c.download(ctx)
		if err == nil {
			if werr := c.writeDisk(mapping); werr != nil {
				return fmt.Errorf("persist severity mapping: %w", werr)
			}
		} else if _, statErr := os.Stat(c.mapPath()); statErr != nil {
			return fmt.Errorf("%w: %v", sharederrors.ErrNoSeverityData, err)
		}
		// Download failed but a stale disk copy exists: fall through and
		// serve the stale data.
	}

	mapping, err := c.readDisk()
	if err != nil {
		return fmt.Errorf("read severity mapping: %w", err)
	}

	c.mu.Lock()
	c.mapping = mapping
	c.mu.Unlock()
	return nil
}

// feedFile mirrors the NVD 1.1 JSON schema, only the fields we read.
type feedFile struct {
	CVEItems []struct {
		CVE struct {
			Meta struct {
				ID string `json:"ID"`
			} `json:"CVE_data_meta"`
		} `json:"cve"`
		Impact struct {
			BaseMetricV3 *struct {
				CVSSV3 struct {
					BaseScore float64 `json:"baseScore"`
				} `json:"cvssV3"`
			} `json:"baseMetricV3"`
			BaseMetricV2 *struct {
				CVSSV2 struct {
					BaseScore float64 `json:"baseScore"`
				} `json:"cvssV2"`
			} `json:"baseMetricV2"`
		} `json:"impact"`
	} `json:"CVE_Items"`
}

func (c *Cache) download(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed is not gzip: %w", err)
	}
	defer gz.Close()

	var feed feedFile
	if err := json.NewDecoder(gz).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	mapping := make(map[string]float64, len(feed.CVEItems))
	for _, item := range feed.CVEItems {
		id := item.CVE.Meta.ID
		if id == "" {
			continue
		}
		// Prefer CVSS v3 when both scoring versions are present.
		switch {
		case item.Impact.BaseMetricV3 != nil:
			mapping[id] = item.Impact.BaseMetricV3.CVSSV3.BaseScore
		case item.Impact.BaseMetricV2 != nil:
			mapping[id] = item.Impact.BaseMetricV2.CVSSV2.BaseScore
		}
	}
	return mapping, nil
}

func (c *Cache) writeDisk(mapping map[string]float64) error {
	if err := os.MkdirAll(c.dir, constants.DefaultDirPerm); err != nil {
		return err
	}
	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	return os.WriteFile(c.mapPath(), data, constants.DefaultFilePerm)
}

func (c *Cache) readDisk() (map[string]float64, error) {
	data, err := os.ReadFile(c.mapPath())
	if err != nil {
		return nil, err
	}
	var mapping map[string]float64
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}
