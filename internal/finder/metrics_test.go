package finder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Counters are process-global, so assertions work on deltas.
func TestMetricsCountSearches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	before := GetMetrics()
	newTestEngine(srv.URL).Search(context.Background(), "creator", PlatformYouTube, 5)
	after := GetMetrics()

	if got := after["search_requests"] - before["search_requests"]; got != 1 {
		t.Errorf("search_requests delta = %d, want 1", got)
	}
	if got := after["search_failures"] - before["search_failures"]; got != 0 {
		t.Errorf("search_failures delta = %d, want 0", got)
	}
}

func TestMetricsCountBotDetections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>" + botDetectionPhrase + "</html>"))
	}))
	defer srv.Close()

	before := GetMetrics()
	newTestEngine(srv.URL).Search(context.Background(), "creator", PlatformYouTube, 5)
	after := GetMetrics()

	if got := after["bot_detections"] - before["bot_detections"]; got != int64(maxProxyAttempts) {
		t.Errorf("bot_detections delta = %d, want %d", got, maxProxyAttempts)
	}
}

func TestFormatMetrics(t *testing.T) {
	out := FormatMetrics()
	for _, key := range []string{
		"search_requests", "search_failures", "bot_detections",
		"proxy_failures", "matches_accepted", "identities_done",
	} {
		if !strings.Contains(out, key+" ") {
			t.Errorf("FormatMetrics() missing %q:\n%s", key, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 6 {
		t.Errorf("FormatMetrics() has %d lines, want 6", lines)
	}
}
