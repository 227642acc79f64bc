package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DavidOteria/OcculusINT/internal/shared/constants"
)

// languageScanLimit caps how much of a page body the language heuristic
// reads. Keyword hits on real pages appear well within the first chunk.
const languageScanLimit = 512 * 1024

// HTTPProbe performs HEAD/GET probes over HTTPS with redirect follow.
type HTTPProbe struct {
	Timeout time.Duration
	// Client overrides the HTTP client, mainly for tests. When nil a
	// default client bounded by Timeout is used.
	Client *http.Client
}

func (p *HTTPProbe) httpClient() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = constants.HTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// probeURL builds the request URL for a target, defaulting to HTTPS when no
// scheme is given. Full URLs pass through untouched so tests can point a
// probe at a local server.
func probeURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return "https://" + target
}

// Status returns the HTTP status code for a HEAD request against the
// target, following redirects. 0 is the neutral "no status" default. Some
// servers reject HEAD, so a failed HEAD falls back to GET before giving up.
func (p *HTTPProbe) Status(ctx context.Context, target string) int {
	resp, err := p.do(ctx, http.MethodHead, target)
	if err != nil {
		resp, err = p.do(ctx, http.MethodGet, target)
		if err != nil {
			return 0
		}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return resp.StatusCode
}

// IsHTTPSAlive reports whether the target answers over HTTPS with a
// non-error status. Neutral default is false.
func (p *HTTPProbe) IsHTTPSAlive(ctx context.Context, target string) bool {
	status := p.Status(ctx, target)
	return status > 0 && status < 400
}

// MatchesLanguage fetches the target page and reports whether any of the
// keywords appear in the body text. This is a crude language/branding
// heuristic: a corporate page is expected to mention its own terms. Neutral
// default is false (no match).
func (p *HTTPProbe) MatchesLanguage(ctx context.Context, target string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}

	resp, err := p.do(ctx, http.MethodGet, target)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, languageScanLimit))
	if err != nil {
		return false
	}

	text := strings.ToLower(string(body))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (p *HTTPProbe) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, probeURL(target), nil)
	if err != nil {
		return nil, err
	}
	return p.httpClient().Do(req)
}
