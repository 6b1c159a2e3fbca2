package finder

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultSearchBaseURL = "https://www.google.com/search"
	// botDetectionPhrase flags the search engine's unusual-traffic
	// interstitial; seeing it means the current proxy is burned.
	botDetectionPhrase = "Our systems have detected unusual traffic"
	maxProxyAttempts   = 3
	defaultMaxResults  = 5
)

// SearchEngine issues platform-hinted queries through the rotating
// proxy pool and extracts candidates from whatever markup comes back.
type SearchEngine struct {
	client  *Client
	pool    *ProxyPool
	baseURL string
	sleep   func(ctx context.Context, min, max time.Duration)
}

func NewSearchEngine(client *Client, pool *ProxyPool) *SearchEngine {
	return &SearchEngine{
		client:  client,
		pool:    pool,
		baseURL: defaultSearchBaseURL,
		sleep:   sleepJitter,
	}
}

// Search runs one query against the platform and returns up to
// maxResults candidates. It never fails for ordinary search trouble:
// bad statuses, bot detection, and exhausted proxies all degrade to an
// empty list with a log line.
func (s *SearchEngine) Search(ctx context.Context, query string, platform Platform, maxResults int) []Result {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	searchURL := s.baseURL + "?q=" + url.QueryEscape(query+" "+platform.searchHint())

	for attempt := 1; attempt <= maxProxyAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil
		}

		proxy := s.pool.Next()
		metrics.SearchRequests.Add(1)
		slog.Debug("searching",
			slog.String("query", query),
			slog.String("platform", string(platform)),
			slog.Int("attempt", attempt),
			slog.Bool("proxied", proxy != nil))

		// Politeness delay, applied even when running proxy-less.
		s.sleep(ctx, 1*time.Second, 3*time.Second)

		body, status, err := s.client.Get(ctx, searchURL, proxy)
		if err != nil {
			metrics.SearchFailures.Add(1)
			slog.Warn("search attempt failed",
				slog.String("query", query), slog.Int("attempt", attempt), slog.Any("error", err))
			s.pool.MarkFailed(proxy)
			s.sleep(ctx, 2*time.Second, 2*time.Second)
			continue
		}
		if status != http.StatusOK {
			metrics.SearchFailures.Add(1)
			slog.Warn("search got bad status", slog.String("query", query), slog.Int("status", status))
			s.pool.MarkFailed(proxy)
			continue
		}
		if strings.Contains(string(body), botDetectionPhrase) {
			metrics.BotDetections.Add(1)
			slog.Warn("bot detection triggered, rotating proxy", slog.String("query", query))
			s.pool.MarkFailed(proxy)
			continue
		}

		results, err := Extract(body, platform, maxResults)
		if err != nil {
			slog.Warn("extraction failed", slog.String("query", query), slog.Any("error", err))
			return nil
		}
		slog.Debug("search results extracted",
			slog.String("query", query), slog.Int("count", len(results)))
		return results
	}

	slog.Warn("all search attempts exhausted", slog.String("query", query))
	return nil
}
