package finder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

const (
	requestTimeout  = 15 * time.Second
	maxHTTPAttempts = 3
	backoffBase     = 1 * time.Second
)

// proxyKey carries the per-request proxy URL through the request context
// so one shared transport serves the whole run.
type proxyKey struct{}

// Client issues GET requests through an optional per-request proxy with
// bounded retries on transient statuses. Identity headers are drawn from
// the stealth user-agent capability once, at construction.
type Client struct {
	http    *http.Client
	headers map[string]string
	limiter *rate.Limiter
}

// NewClient builds a client with a single shared transport. The proxy is
// selected per request from the context, matching the original design of
// one session reused across the whole run.
func NewClient() *Client {
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if u, ok := req.Context().Value(proxyKey{}).(*url.URL); ok {
				return u, nil
			}
			return nil, nil
		},
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     60 * time.Second,
	}
	return &Client{
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		headers: stealth.ChromeHeaders(),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Get fetches rawURL, optionally through proxy. Transient statuses
// (429/500/502/503/504) are retried up to maxHTTPAttempts with
// exponential backoff; network errors are NOT retried here — rotating to
// the next proxy is the caller's responsibility. Non-2xx statuses that
// are not retryable are surfaced via the returned status code, not an
// error. The body is decoded to UTF-8 per the declared charset.
func (c *Client) Get(ctx context.Context, rawURL string, proxy *Endpoint) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	if proxy != nil {
		u, err := proxy.ProxyURL()
		if err != nil {
			return nil, 0, fmt.Errorf("proxy address: %w", err)
		}
		ctx = context.WithValue(ctx, proxyKey{}, u)
	}

	operation := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = backoffBase
	bo.MaxInterval = 10 * time.Second

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo), backoff.WithMaxTries(maxHTTPAttempts))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return decodeToUTF8(body, resp.Header.Get("Content-Type")), resp.StatusCode, nil
}

// isRetryableStatus returns true for HTTP status codes worth retrying.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
