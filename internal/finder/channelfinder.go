package finder

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// AcceptScore is the minimum score required for a match to be reported.
// Any match the Matcher accepts is floored here — an accepted match is
// never reported below the threshold.
const AcceptScore = 50

const maxQueries = 3

// reservedProfilePaths are X/Twitter paths that are never usernames.
var reservedProfilePaths = map[string]struct{}{
	"home": {}, "explore": {}, "notifications": {}, "messages": {},
	"bookmarks": {}, "lists": {}, "profile": {}, "more": {},
	"compose": {}, "search": {}, "settings": {}, "help": {},
}

// ChannelFinder resolves one identity to its best YouTube and Twitch
// matches using the greedy first-good-enough policy: the first result
// the matcher accepts ends the scan for that platform.
type ChannelFinder struct {
	search     Searcher
	matcher    Matcher
	maxResults int
	sleep      func(ctx context.Context, min, max time.Duration)
}

// NewChannelFinder wires a searcher and a matcher. maxResults <= 0
// selects the default of 5 candidates per query.
func NewChannelFinder(search Searcher, matcher Matcher, maxResults int) *ChannelFinder {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &ChannelFinder{
		search:     search,
		matcher:    matcher,
		maxResults: maxResults,
		sleep:      sleepJitter,
	}
}

// FindChannels searches both platforms for the identity. Queries are
// built once and reused for both passes.
func (f *ChannelFinder) FindChannels(ctx context.Context, id Identity) ChannelMatches {
	queries := BuildQueries(id)
	slog.Info("search queries built",
		slog.String("username", id.Username), slog.Any("queries", queries))

	var out ChannelMatches
	for _, platform := range []Platform{PlatformYouTube, PlatformTwitch} {
		best := f.findOnPlatform(ctx, id, platform, queries)
		if best.Score < AcceptScore {
			continue
		}
		switch platform {
		case PlatformYouTube:
			out.YouTubeURL, out.YouTubeScore = best.URL, best.Score
		case PlatformTwitch:
			out.TwitchURL, out.TwitchScore = best.URL, best.Score
		}
	}
	return out
}

func (f *ChannelFinder) findOnPlatform(ctx context.Context, id Identity, platform Platform, queries []string) Match {
	best := Match{Platform: platform}
	for qi, query := range queries {
		if ctx.Err() != nil {
			break
		}

		for _, r := range f.search.Search(ctx, query, platform, f.maxResults) {
			clean := platform.Filter(r.URL)
			if clean == "" {
				continue
			}
			if !f.matcher.IsPlausibleMatch(clean, id.Username, id.DisplayName) {
				continue
			}
			score := f.matcher.Score(id.Username, id.DisplayName, r.Title, clean)
			if score < AcceptScore {
				score = AcceptScore
			}
			best = Match{Platform: platform, URL: clean, Score: score}
			metrics.MatchesAccepted.Add(1)
			slog.Info("match accepted",
				slog.String("username", id.Username),
				slog.String("platform", string(platform)),
				slog.String("url", clean),
				slog.Int("score", score))
			break
		}

		if best.Score >= AcceptScore {
			break
		}
		if qi < len(queries)-1 {
			f.sleep(ctx, 2*time.Second, 4*time.Second)
		}
	}
	return best
}

// BuildQueries derives the ordered, de-duplicated query list for an
// identity: quoted username, quoted display name, the unquoted combo,
// then a quoted name extracted from the source profile URL. Capped at
// maxQueries; the same list serves both platforms.
func BuildQueries(id Identity) []string {
	var queries []string
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || q == `""` {
			return
		}
		for _, have := range queries {
			if have == q {
				return
			}
		}
		queries = append(queries, q)
	}

	if id.Username != "" {
		add(`"` + id.Username + `"`)
	}
	if id.DisplayName != "" && id.DisplayName != id.Username {
		add(`"` + id.DisplayName + `"`)
	}
	if id.Username != "" && id.DisplayName != "" {
		add(id.Username + " " + id.DisplayName)
	}
	if id.SourceURL != "" {
		name := ExtractProfileName(id.SourceURL)
		if name != "" && name != id.Username && name != id.DisplayName {
			add(`"` + name + `"`)
		}
	}

	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}

// ExtractProfileName pulls a candidate username out of a profile URL.
// X/Twitter URLs use the segment after the domain, rejecting reserved
// paths; any other URL uses the final path segment. Failures yield ""
// with a log line, never an error.
func ExtractProfileName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		slog.Warn("profile name extraction failed",
			slog.String("url", raw), slog.Any("error", err))
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.Split(u.Path, "/")

	if host == "x.com" || host == "twitter.com" {
		for _, seg := range segments {
			if seg == "" {
				continue
			}
			name := strings.TrimPrefix(seg, "@")
			if _, reserved := reservedProfilePaths[name]; reserved {
				return ""
			}
			return strings.TrimSpace(name)
		}
		return ""
	}

	name := segments[len(segments)-1]
	name = strings.ReplaceAll(name, "@", "")
	return strings.TrimSpace(name)
}
