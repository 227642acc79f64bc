// Package constants centralizes timeouts, pacing intervals, and cache
// locations shared across the CLI.
//
// Keeping the Shodan pacing interval, the NVD freshness window, and the
// probe timeouts in one place prevents magic numbers from scattering across
// cmd/ and internal/, and lets tests reference the same values the
// production code uses.
package constants
