// Package score turns collected domain signals into bounded risk scores and
// computes the per-host composite security score.
//
// Domain risk scoring is a deterministic mapping (domain, keyword set) ->
// integer in [0,100]. DNS resolution gates everything: an unresolved domain
// scores 0 no matter what the other signals say. The weighted rule table
// lives in rules.go and is the single source of truth for the weights.
package score

import (
	"context"
	"sort"
	"strings"

	"github.com/DavidOteria/OcculusINT/internal/fqdn"
	"github.com/DavidOteria/OcculusINT/internal/probe"
	"github.com/DavidOteria/OcculusINT/internal/runner"
	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// Label thresholds, fixed by contract.
const (
	thresholdCritique   = 80
	thresholdSuspect    = 60
	thresholdSurveiller = 40
)

// Result is the scored outcome for one domain.
type Result struct {
	Domain string `json:"domain"`
	Score  int    `json:"score"`
	Label  string `json:"label"`
}

// Label maps a score to its qualitative band.
func Label(score int) string {
	switch {
	case score >= thresholdCritique:
		return "critique"
	case score >= thresholdSuspect:
		return "suspect"
	case score >= thresholdSurveiller:
		return "surveiller"
	default:
		return "ok"
	}
}

// Scorer collects signals for a domain and evaluates the risk table.
type Scorer struct {
	Resolver *probe.Resolver
	HTTP     *probe.HTTPProbe
	Whois    *probe.WhoisProbe
	Rules    []Rule
}

// NewScorer builds a Scorer with default probes against the given
// nameserver ("" selects the public default).
func NewScorer(nameserver string) *Scorer {
	return &Scorer{
		Resolver: probe.NewResolver(nameserver),
		HTTP:     &probe.HTTPProbe{Timeout: constants.HTTPTimeout},
		Whois:    &probe.WhoisProbe{},
		Rules:    Rules,
	}
}

// Collect gathers all signals for one domain. Probe failures surface as the
// neutral defaults documented in package probe, never as errors.
func (s *Scorer) Collect(ctx context.Context, domain string, keywords []string) Signals {
	sig := Signals{
		Domain:   fqdn.Normalize(domain),
		Keywords: lowerAll(keywords),
	}

	sig.IP, sig.Resolved = s.Resolver.LookupA(ctx, sig.Domain)
	if !sig.Resolved {
		// Gated to zero anyway; skip the remaining network calls.
		return sig
	}

	sig.HTTPSAlive = s.HTTP.IsHTTPSAlive(ctx, sig.Domain)
	sig.HTTPStatus = s.HTTP.Status(ctx, sig.Domain)
	if sig.HTTPStatus == 200 {
		sig.WhoisOrg = s.Whois.Organization(sig.Domain)
	}
	sig.SOAMname = strings.ToLower(s.Resolver.SOAMname(ctx, sig.Domain))
	sig.LanguageMatch = s.HTTP.MatchesLanguage(ctx, sig.Domain, sig.Keywords)

	return sig
}

// Score evaluates the rule table over already-collected signals, applying
// the DNS gate and the [0,100] clamp.
func (s *Scorer) Score(sig Signals) int {
	if !sig.Resolved {
		return 0
	}
	total := Evaluate(s.rules(), sig)
	return clamp(total, 0, 100)
}

// ScoreDomain collects and scores a single domain.
func (s *Scorer) ScoreDomain(ctx context.Context, domain string, keywords []string) Result {
	sig := s.Collect(ctx, domain, keywords)
	n := s.Score(sig)
	return Result{Domain: sig.Domain, Score: n, Label: Label(n)}
}

// ScoreAll fans the domain list out through the task runner and returns one
// Result per domain, sorted by descending score. Per-domain failures (only
// possible through batch cancellation) yield a zero score for that domain
// rather than aborting the batch.
func (s *Scorer) ScoreAll(ctx context.Context, domains []string, keywords []string, cfg runner.Config) ([]Result, error) {
	task := func(taskCtx context.Context, domain string) (Result, error) {
		return s.ScoreDomain(taskCtx, domain, keywords), nil
	}

	outcomes, err := runner.Run(ctx, domains, task, cfg)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(outcomes))
	for _, out := range outcomes {
		if out.Err != nil {
			results = append(results, Result{Domain: fqdn.Normalize(out.Input), Score: 0, Label: Label(0)})
			continue
		}
		results = append(results, out.Value)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func (s *Scorer) rules() []Rule {
	if len(s.Rules) > 0 {
		return s.Rules
	}
	return Rules
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, strings.ToLower(v))
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
