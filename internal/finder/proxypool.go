package finder

import (
	"encoding/csv"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"strings"
	"sync"
)

// Endpoint is one outbound relay descriptor. Immutable once loaded.
type Endpoint struct {
	Address string
}

// ProxyURL parses the endpoint address for use in an http.Transport.
func (e *Endpoint) ProxyURL() (*url.URL, error) {
	return url.Parse(e.Address)
}

// ProxyPool rotates endpoints round-robin, skipping permanently failed
// ones. Mutex-guarded: the pipeline is sequential today, but rotation
// state must not corrupt if a concurrent caller appears.
type ProxyPool struct {
	mu      sync.Mutex
	proxies []Endpoint
	index   int
	failed  map[string]struct{}
}

// NewProxyPool builds a pool from the given endpoints. The list is
// shuffled once so repeated runs do not hammer the same endpoint first.
func NewProxyPool(endpoints []Endpoint) *ProxyPool {
	proxies := make([]Endpoint, len(endpoints))
	copy(proxies, endpoints)
	rand.Shuffle(len(proxies), func(i, j int) {
		proxies[i], proxies[j] = proxies[j], proxies[i]
	})
	return &ProxyPool{
		proxies: proxies,
		failed:  make(map[string]struct{}),
	}
}

// LoadProxies reads a csv with ip and port columns and builds a pool of
// http://ip:port endpoints. An absent or malformed source degrades to an
// empty pool with a warning — the run continues proxy-less rather than
// aborting.
func LoadProxies(path string) *ProxyPool {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("proxy list unavailable, running without proxies",
			slog.String("path", path), slog.Any("error", err))
		return NewProxyPool(nil)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		slog.Warn("proxy list unreadable, running without proxies",
			slog.String("path", path), slog.Any("error", err))
		return NewProxyPool(nil)
	}

	ipCol, portCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "ip":
			ipCol = i
		case "port":
			portCol = i
		}
	}
	if ipCol < 0 || portCol < 0 {
		slog.Warn("proxy list missing ip/port columns, running without proxies",
			slog.String("path", path))
		return NewProxyPool(nil)
	}

	var endpoints []Endpoint
	for _, row := range records[1:] {
		if len(row) <= ipCol || len(row) <= portCol {
			continue
		}
		ip := strings.TrimSpace(row[ipCol])
		port := strings.TrimSpace(row[portCol])
		if ip == "" || port == "" {
			continue
		}
		endpoints = append(endpoints, Endpoint{Address: "http://" + ip + ":" + port})
	}

	slog.Info("proxy pool loaded", slog.Int("proxies", len(endpoints)))
	return NewProxyPool(endpoints)
}

// Next returns the next endpoint in rotation, skipping failed ones.
// Returns nil when the pool is empty or fully excluded; callers must
// treat nil as "proceed without a proxy", not as an error.
func (p *ProxyPool) Next() *Endpoint {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil
	}
	for attempts := 0; attempts < len(p.proxies); attempts++ {
		e := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)
		if _, bad := p.failed[e.Address]; !bad {
			return &e
		}
	}
	return nil
}

// MarkFailed permanently excludes an endpoint from rotation for the
// rest of the process lifetime. Nil is a no-op so callers can report a
// failed proxy-less attempt without a guard.
func (p *ProxyPool) MarkFailed(e *Endpoint) {
	if e == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.failed[e.Address]; !seen {
		p.failed[e.Address] = struct{}{}
		metrics.ProxyFailures.Add(1)
		slog.Warn("proxy marked failed", slog.String("proxy", e.Address))
	}
}

// Len returns the number of loaded endpoints, failed or not.
func (p *ProxyPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies)
}
