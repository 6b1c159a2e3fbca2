package finder

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across a run.
var metrics struct {
	SearchRequests  atomic.Int64
	SearchFailures  atomic.Int64
	BotDetections   atomic.Int64
	ProxyFailures   atomic.Int64
	MatchesAccepted atomic.Int64
	IdentitiesDone  atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"search_requests":  metrics.SearchRequests.Load(),
		"search_failures":  metrics.SearchFailures.Load(),
		"bot_detections":   metrics.BotDetections.Load(),
		"proxy_failures":   metrics.ProxyFailures.Load(),
		"matches_accepted": metrics.MatchesAccepted.Load(),
		"identities_done":  metrics.IdentitiesDone.Load(),
	}
}

// FormatMetrics returns counters as a simple text format for end-of-run logging.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"search_requests", "search_failures",
		"bot_detections", "proxy_failures",
		"matches_accepted", "identities_done",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
