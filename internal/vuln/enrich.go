package vuln

import (
	"context"
	"net"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// Target is one unique IP to enrich, with the first domain observed for it.
type Target struct {
	IP     string
	Domain string
}

// BuildTargets deduplicates input rows by IP, keeping the first-seen domain
// per IP and preserving first-occurrence order. Rows with a missing or
// invalid IP are skipped. Later rows for an already-seen IP merge into the
// existing target and are never re-queried.
func BuildTargets(rows []map[string]string, logger *zap.SugaredLogger) []Target {
	seen := make(map[string]bool)
	targets := make([]Target, 0, len(rows))

	for _, row := range rows {
		ip := strings.TrimSpace(firstValue(row, "ip", "IP"))
		if ip == "" {
			continue
		}
		if net.ParseIP(ip) == nil {
			if logger != nil {
				logger.Warnf("skipping invalid IP: %s", ip)
			}
			continue
		}
		if seen[ip] {
			continue
		}
		seen[ip] = true
		targets = append(targets, Target{
			IP:     ip,
			Domain: strings.TrimSpace(firstValue(row, "domain", "fqdn")),
		})
	}
	return targets
}

func firstValue(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Enricher runs the passive lookup pipeline: disk cache first, then a live
// query paced by the source's minimum inter-request interval.
//
// Pacing intentionally applies only to live queries. A cache hit performs
// no network I/O, so it skips both the query and the delay. Live queries
// are serialized by the limiter even when callers could run them in
// parallel: the spacing is a compliance constraint of the source, not a
// throughput knob.
type Enricher struct {
	Source  Source
	Cache   *Cache
	Limiter *rate.Limiter
	Logger  *zap.SugaredLogger

	// OnProgress, when set, is called after each IP completes with the
	// running counts.
	OnProgress func(done, total int)
}

// NewEnricher wires an enricher with the standard pacing interval.
func NewEnricher(source Source, cache *Cache, logger *zap.SugaredLogger) *Enricher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Enricher{
		Source:  source,
		Cache:   cache,
		Limiter: rate.NewLimiter(rate.Every(constants.HostQueryInterval), 1),
		Logger:  logger,
	}
}

// Enrich produces one HostRecord per surviving target, in input order. An
// IP whose live query fails is dropped from the output entirely; the batch
// always completes. The only returned error is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, targets []Target) ([]HostRecord, error) {
	records := make([]HostRecord, 0, len(targets))

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		record, ok := e.enrichOne(ctx, target)
		if ok {
			records = append(records, record)
		}
		if e.OnProgress != nil {
			e.OnProgress(i+1, len(targets))
		}
	}
	return records, nil
}

func (e *Enricher) enrichOne(ctx context.Context, target Target) (HostRecord, bool) {
	if raw, hit := e.Cache.Get(target.IP); hit {
		record, err := parseHost(target.IP, target.Domain, raw)
		if err == nil {
			return record, true
		}
		// Unparseable cached payload: fall through to a live query.
		e.Logger.Warnf("cached response for %s unusable: %v", target.IP, err)
	}

	if err := e.Limiter.Wait(ctx); err != nil {
		return HostRecord{}, false
	}

	raw, err := e.Source.Host(ctx, target.IP)
	if err != nil {
		// Rate-limit, network, and source errors all drop just this IP.
		e.Logger.Warnf("%s skipped: %v", target.IP, err)
		return HostRecord{}, false
	}

	if err := e.Cache.Put(target.IP, raw); err != nil {
		e.Logger.Warnf("failed to cache response for %s: %v", target.IP, err)
	}

	record, err := parseHost(target.IP, target.Domain, raw)
	if err != nil {
		e.Logger.Warnf("%s skipped: %v", target.IP, err)
		return HostRecord{}, false
	}
	return record, true
}
