// Package match scores how well a channel URL and title fit a known
// identity. It is the default implementation behind the pipeline's
// matcher interface; callers with a better model can swap it out.
package match

import (
	"net/url"
	"sort"
	"strings"
	"unicode"
)

// NameMatcher compares identities against candidate channels using
// normalized handle comparison plus token overlap on titles.
type NameMatcher struct{}

func NewNameMatcher() *NameMatcher { return &NameMatcher{} }

// IsPlausibleMatch reports whether the channel handle embedded in
// rawURL could belong to the identity. Cheap gate that runs before the
// full score.
func (m *NameMatcher) IsPlausibleMatch(rawURL, username, displayName string) bool {
	handle := normalize(handleFromURL(rawURL))
	if handle == "" {
		return false
	}
	for _, name := range []string{username, displayName} {
		n := normalize(name)
		if n == "" {
			continue
		}
		if strings.Contains(handle, n) || strings.Contains(n, handle) {
			return true
		}
		if overlap(tokenize(name), tokenize(handle)) > 0 {
			return true
		}
	}
	return false
}

// Score rates a candidate 0-100. An exact normalized handle match is
// 100, a containment match 85, otherwise Jaccard overlap between the
// identity's tokens and the candidate's handle and title tokens.
func (m *NameMatcher) Score(username, displayName, title, rawURL string) int {
	handle := normalize(handleFromURL(rawURL))

	for _, name := range []string{username, displayName} {
		n := normalize(name)
		if n == "" {
			continue
		}
		if n == handle {
			return 100
		}
	}
	for _, name := range []string{username, displayName} {
		n := normalize(name)
		if n == "" || handle == "" {
			continue
		}
		if strings.Contains(handle, n) || strings.Contains(n, handle) {
			return 85
		}
	}

	identity := tokenize(username + " " + displayName)
	candidate := tokenize(title + " " + handle)
	inter := overlap(identity, candidate)
	union := len(identity) + len(candidate) - inter
	if union == 0 {
		return 0
	}
	return inter * 100 / union
}

// handleFromURL extracts the channel handle: the last non-empty path
// segment with any leading "@" removed.
func handleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return strings.TrimPrefix(parts[i], "@")
		}
	}
	return ""
}

// normalize lowercases and strips everything but letters and digits,
// so "Ninja_YT" and "ninjayt" compare equal.
func normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// tokenize splits text into lowercase alphanumeric tokens of at least
// 2 runes.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := word.String()
		word.Reset()
		if len([]rune(w)) >= 2 {
			tokens[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func overlap(a, b map[string]bool) int {
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}

// Tokens returns the sorted token list for text. Exposed for callers
// that want to inspect why a score came out the way it did.
func Tokens(text string) []string {
	set := tokenize(text)
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
