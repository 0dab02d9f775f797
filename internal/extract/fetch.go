package extract

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Options configures the default extraction ladder.
type Options struct {
	// Timeout bounds each individual fetch via context deadline.
	Timeout time.Duration
	// UserAgent identifies the primary tier's requests.
	UserAgent string
	// FallbackUserAgent is the browser-style agent the fallback tier uses.
	FallbackUserAgent string
	// MinBodyBytes is the smallest primary-tier body considered plausible.
	MinBodyBytes int
	// MaxBodyBytes caps how much of a response is read.
	MaxBodyBytes int64
	// RequestsPerSecond throttles fetches per host.
	RequestsPerSecond float64
	// Client overrides the default HTTP client.
	Client *http.Client
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = "Mozilla/5.0 (compatible; VenueScoutBot/1.0)"
	}
	if o.FallbackUserAgent == "" {
		o.FallbackUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}
	if o.MinBodyBytes <= 0 {
		o.MinBodyBytes = 1000
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 512 * 1024
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 4
	}
	if o.Client == nil {
		o.Client = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		}
	}
	return o
}

// fetcher retrieves page bodies with per-host rate limiting, a body cap,
// and a per-request deadline. No retries: a failed fetch is a tier failure
// and escalation is the ladder's job.
type fetcher struct {
	client  *http.Client
	maxBody int64
	rps     rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newFetcher(client *http.Client, maxBody int64, rps float64) *fetcher {
	return &fetcher{
		client:   client,
		maxBody:  maxBody,
		rps:      rate.Limit(rps),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (f *fetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(f.rps, 1)
		f.limiters[host] = lim
	}
	return lim
}

// get fetches one URL and returns up to maxBody bytes of the response.
// Statuses outside 2xx are failures.
func (f *fetcher) get(ctx context.Context, pageURL string, timeout time.Duration, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: parse %s", pageURL)
	}

	if err := f.limiterFor(u.Host).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "extract: rate limit")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: create request for %s", pageURL)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: fetch %s", pageURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("extract: fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, eris.Wrapf(err, "extract: read body from %s", pageURL)
	}
	return body, nil
}

// originURL normalizes a raw website value to its origin: https:// is
// assumed when no scheme is present, and any path is discarded.
func originURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", eris.New("extract: empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", eris.Wrapf(err, "extract: parse url %s", raw)
	}
	if u.Host == "" {
		return "", eris.Errorf("extract: url %q has no host", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
