package finder

import (
	"context"
	"strings"
)

// Platform is one of the two target services being searched.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformTwitch  Platform = "twitch"
)

// Domain returns the hostname substring that qualifies a result URL
// as belonging to the platform.
func (p Platform) Domain() string {
	if p == PlatformTwitch {
		return "twitch.tv"
	}
	return "youtube.com"
}

// searchHint is appended to every query to bias the search engine
// toward the platform.
func (p Platform) searchHint() string {
	if p == PlatformTwitch {
		return "twitch"
	}
	return "youtube channel"
}

// inURL reports whether a raw (possibly redirect-wrapped) URL points at
// the platform. Substring match on purpose: wrapped URLs keep the
// destination host percent-encoded inside the query string.
func (p Platform) inURL(raw string) bool {
	return strings.Contains(raw, p.Domain())
}

// Filter validates and cleans a candidate URL for the platform.
// Returns "" when the URL is not a usable channel page.
func (p Platform) Filter(raw string) string {
	if p == PlatformTwitch {
		return FilterTwitch(raw)
	}
	return FilterYouTube(raw)
}

// Identity is the subject being resolved to platform channels.
// Immutable input to ChannelFinder.
type Identity struct {
	Username    string
	DisplayName string
	SourceURL   string
}

// Result is a raw candidate extracted from one search response page.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Match is the best-known candidate for one platform during a
// ChannelFinder run. A zero Match means "nothing accepted yet".
type Match struct {
	Platform Platform
	URL      string
	Score    int
}

// ChannelMatches is the per-identity output. URL fields are populated
// if and only if the corresponding score cleared AcceptScore.
type ChannelMatches struct {
	YouTubeURL   string
	YouTubeScore int
	TwitchURL    string
	TwitchScore  int
}

// Matcher decides whether a candidate URL plausibly belongs to an
// identity and assigns a 0–100 confidence score. The pipeline consumes
// it as a capability so the matching algorithm can be swapped out.
type Matcher interface {
	IsPlausibleMatch(url, username, displayName string) bool
	Score(username, displayName, title, url string) int
}

// Reporter receives batch progress. Implemented by the caller (CLI,
// UI); the pipeline itself only emits structured log events.
type Reporter interface {
	Progress(fraction float64)
	Status(message string)
}

// Searcher is the query-to-candidates boundary ChannelFinder depends on.
type Searcher interface {
	Search(ctx context.Context, query string, platform Platform, maxResults int) []Result
}
