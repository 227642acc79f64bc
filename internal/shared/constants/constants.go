package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultNameserver is the upstream resolver used when none is configured.
	DefaultNameserver = "8.8.8.8:53"
	// DNSTimeout bounds A and SOA queries.
	DNSTimeout = 5 * time.Second
	// TCPTimeout bounds raw reachability probes.
	TCPTimeout = 3 * time.Second
	// HTTPTimeout bounds HEAD/GET probes against targets.
	HTTPTimeout = 5 * time.Second
	// CrtShTimeout bounds certificate-transparency queries; crt.sh is slow.
	CrtShTimeout = 30 * time.Second
)

const (
	// HostQueryInterval is the minimum spacing between consecutive live
	// host-intelligence queries. Shodan allows 1 req/s on every plan; the
	// extra 100ms leaves a margin.
	HostQueryInterval = 1100 * time.Millisecond
	// HostCacheDir stores one raw JSON response per queried IP.
	HostCacheDir = ".cache/shodan"
)

const (
	// CVSSCacheDir stores the serialized severity mapping.
	CVSSCacheDir = ".cache/nvd"
	// CVSSMaxAge is how long the on-disk severity mapping stays fresh.
	CVSSMaxAge = 7 * 24 * time.Hour
)

const (
	// LongDomainLength is the length above which a domain name is
	// considered suspiciously long by the risk scorer.
	LongDomainLength = 40
)
