package discover

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/DavidOteria/OcculusINT/internal/probe"
	"github.com/DavidOteria/OcculusINT/internal/runner"
)

// Resolution pairs a domain with the first A record it resolved to.
type Resolution struct {
	Domain string
	IP     string
}

// Enumerator brute-forces subdomains of a root domain from a wordlist and
// keeps only the candidates that resolve.
type Enumerator struct {
	Resolver *probe.Resolver
	Workers  int
}

// NewEnumerator builds an enumerator resolving through nameserver.
func NewEnumerator(nameserver string, workers int) *Enumerator {
	return &Enumerator{
		Resolver: probe.NewResolver(nameserver),
		Workers:  workers,
	}
}

// Enumerate resolves word.root for every wordlist entry and returns the
// subdomains that answered, sorted. Resolution runs through the bounded
// runner; a candidate that does not resolve is simply absent from the
// output.
func (e *Enumerator) Enumerate(ctx context.Context, root string, words []string) ([]string, error) {
	candidates := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		candidates = append(candidates, fmt.Sprintf("%s.%s", w, root))
	}

	results, err := runner.Run(ctx, candidates, func(ctx context.Context, domain string) (bool, error) {
		_, ok := e.Resolver.LookupA(ctx, domain)
		return ok, nil
	}, runner.Config{Workers: e.Workers})
	if err != nil {
		return nil, err
	}

	found := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Value {
			found = append(found, r.Input)
		}
	}
	sort.Strings(found)
	return found, nil
}

// ResolveAll resolves each domain to its first A record, in parallel, and
// returns only the domains that resolved, preserving input order.
func (e *Enumerator) ResolveAll(ctx context.Context, domains []string) ([]Resolution, error) {
	results, err := runner.Run(ctx, domains, func(ctx context.Context, domain string) (string, error) {
		ip, ok := e.Resolver.LookupA(ctx, domain)
		if !ok {
			return "", nil
		}
		return ip, nil
	}, runner.Config{Workers: e.Workers})
	if err != nil {
		return nil, err
	}

	byDomain := make(map[string]string, len(results))
	for _, r := range results {
		if r.Err == nil && r.Value != "" {
			byDomain[r.Input] = r.Value
		}
	}

	resolved := make([]Resolution, 0, len(byDomain))
	for _, d := range domains {
		// A domain listed twice in the input yields one row, at its first
		// position.
		if ip, ok := byDomain[d]; ok {
			resolved = append(resolved, Resolution{Domain: d, IP: ip})
			delete(byDomain, d)
		}
	}
	return resolved, nil
}

// LoadWordlist reads one candidate label per line, skipping blanks and
// comment lines.
func LoadWordlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}
