package httpcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UserAgent is the desktop browser User-Agent sent with every request.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 30 * time.Second

	maxBodySize = 10 << 20
)

// Fetcher retrieves pages with a single GET per URL. Failed fetches are
// never retried and never cached.
type Fetcher struct {
	client  *http.Client
	cache   Cacher
	limiter *hostLimiter
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*config)

type config struct {
	cache   Cacher
	jar     http.CookieJar
	logger  *slog.Logger
	client  *http.Client
	timeout time.Duration
	limit   rate.Limit
	burst   int
}

// WithHTTPCache sets the page cache.
func WithHTTPCache(httpCache Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithCookieJar sends cookies from jar with every request.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *config) { c.jar = jar }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.client = client }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithRateLimit sets the per-host request rate and burst.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *config) { c.limit, c.burst = limit, burst }
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	cfg := &config{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
		limit:   rate.Every(500 * time.Millisecond),
		burst:   2,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := cfg.client
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
	}
	if cfg.jar != nil {
		client.Jar = cfg.jar
	}

	return &Fetcher{
		client:  client,
		cache:   cfg.cache,
		limiter: newHostLimiter(cfg.limit, cfg.burst),
		logger:  cfg.logger,
		timeout: cfg.timeout,
	}
}

// Fetch returns the body of rawURL. Non-2xx responses yield *HTTPError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q in %s", u.Scheme, rawURL)
	}

	if f.cache == nil {
		return f.fetch(ctx, u)
	}

	authenticated := f.client.Jar != nil && len(f.client.Jar.Cookies(u)) > 0
	var wasFetched bool
	data, err := f.cache.GetSet(ctx, Key(u.String(), authenticated), func(ctx context.Context) ([]byte, error) {
		wasFetched = true
		f.logger.DebugContext(ctx, "cache miss", "url", rawURL)
		return f.fetch(ctx, u)
	}, f.cache.TTL())
	if err != nil {
		return nil, err
	}
	if !wasFetched {
		counters.hits.Add(1)
		f.logger.DebugContext(ctx, "cache hit", "url", rawURL)
	}
	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, u *url.URL) (body []byte, err error) {
	defer func() { record(len(body), err) }()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", u.Host, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	f.logger.DebugContext(ctx, "fetched", "url", u.String(), "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: u.String()}
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", u, err)
	}
	return body, nil
}

// hostLimiter hands out one token bucket per host.
type hostLimiter struct {
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

func newHostLimiter(limit rate.Limit, burst int) *hostLimiter {
	return &hostLimiter{limiters: map[string]*rate.Limiter{}, limit: limit, burst: burst}
}

func (h *hostLimiter) Wait(ctx context.Context, host string) error {
	h.mu.Lock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.limiters[host] = l
	}
	h.mu.Unlock()
	return l.Wait(ctx)
}
