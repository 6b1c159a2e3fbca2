package finder

import "strings"

// youtubeChannelPaths are the URL shapes that identify a channel page.
var youtubeChannelPaths = []string{"/channel/", "/c/", "/@", "/user/"}

// FilterYouTube strips a redirect wrapper and returns the URL only if it
// is a youtube.com channel page. Pure function, idempotent.
func FilterYouTube(raw string) string {
	if raw == "" {
		return ""
	}
	raw = unwrapRedirect(raw)
	if !strings.Contains(raw, "youtube.com") {
		return ""
	}
	for _, p := range youtubeChannelPaths {
		if strings.Contains(raw, p) {
			return raw
		}
	}
	return ""
}

// FilterTwitch strips a redirect wrapper and returns the URL only if it
// is a twitch.tv page below the bare root. Pure function, idempotent.
func FilterTwitch(raw string) string {
	if raw == "" {
		return ""
	}
	raw = unwrapRedirect(raw)
	if !strings.Contains(raw, "twitch.tv") {
		return ""
	}
	parts := strings.Split(raw, "/")
	if len(parts) < 4 || parts[3] == "" {
		return ""
	}
	return raw
}
