package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/factionmap/pkg/buildinfo"
	"github.com/matzehuels/factionmap/pkg/cache"
	"github.com/matzehuels/factionmap/pkg/observability"
)

const httpTimeout = 15 * time.Second

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client performs GET requests with retries and optional caching.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// NewClient creates a Client. Bodies are cached for ttl under keys from
// keyer; a nil backend disables caching. Headers are applied to every
// request.
func NewClient(backend cache.Cache, keyer cache.Keyer, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    backend,
		keyer:    keyer,
		ttl:      ttl,
		headers:  headers,
		attempts: 3,
		delay:    time.Second,
	}
}

// WithRetry returns a copy of c that makes attempts tries starting at delay.
func (c *Client) WithRetry(attempts int, delay time.Duration) *Client {
	cp := *c
	cp.attempts, cp.delay = attempts, delay
	return &cp
}

// GetText fetches url and returns the body.
func (c *Client) GetText(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.do(ctx, url)
		return err
	})
	return body, err
}

// Cached returns the body for url from the cache under namespace, fetching
// and storing it on a miss. With refresh the cache is bypassed but still
// updated.
func (c *Client) Cached(ctx context.Context, namespace, url string, refresh bool) ([]byte, error) {
	key := c.keyer.HTTPKey(namespace, url)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}
	body, err := c.GetText(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(body))
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return retryAfter(fmt.Errorf("%w: status %d", ErrNetwork, code), resp, time.Now())
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
