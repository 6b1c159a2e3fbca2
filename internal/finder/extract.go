package finder

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/net/html"
)

// Search-result markup changes unpredictably across locales and
// experiments, so extraction tries a fixed priority list of known
// selector shapes and falls back to raw-anchor harvesting. Order
// matters and is part of the contract.
var (
	containerSelectors = []string{"div.g", "div[data-ved]", ".yuRUbf", "div.tF2Cxc"}
	titleSelectors     = []string{"h3", ".LC20lb", `[role="heading"]`, "h3 span", ".DKV0Md", ".BNeawe.vvjwJb.AP7Wnd"}
	linkSelectors      = []string{"a[href]", "a", "[href]"}
	snippetSelectors   = []string{".VwiC3b", ".s", ".st"}
)

// nonChannelPaths are YouTube paths that never identify a channel.
var nonChannelPaths = []string{"/watch?", "/shorts/", "/playlist?"}

// extractStrategy pulls candidates from a parsed page. matched reports
// whether the strategy recognized the markup at all — a strategy that
// matched but yielded nothing still terminates the cascade.
type extractStrategy func(doc *goquery.Document, platform Platform, maxResults int) (results []Result, matched bool)

var extractStrategies = []extractStrategy{extractStructured, extractAnchors}

// Extract runs the strategy cascade over a search response body.
func Extract(body []byte, platform Platform, maxResults int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	for _, strat := range extractStrategies {
		if results, matched := strat(doc, platform, maxResults); matched {
			return results, nil
		}
	}
	return nil, nil
}

// extractStructured walks known result containers, taking the first
// title and link selector that yields anything per container. A
// container contributes only if both were found and the link belongs to
// the platform.
func extractStructured(doc *goquery.Document, platform Platform, maxResults int) ([]Result, bool) {
	var containers *goquery.Selection
	for _, sel := range containerSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			containers = s
			break
		}
	}
	if containers == nil {
		return nil, false
	}

	var results []Result
	containers.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 2*maxResults {
			return false
		}

		title := firstText(s, titleSelectors)
		href := firstHref(s, linkSelectors)
		if title == "" || href == "" || !platform.inURL(href) {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     unwrapRedirect(href),
			Snippet: firstText(s, snippetSelectors),
		})
		return len(results) < maxResults
	})
	return results, true
}

// extractAnchors is the fallback: harvest every anchor in the document
// and keep the ones that look like platform channel links. Always
// reports matched — it is the end of the cascade.
func extractAnchors(doc *goquery.Document, platform Platform, maxResults int) ([]Result, bool) {
	var results []Result
	for _, root := range doc.Nodes {
		walkAnchors(root, func(n *html.Node) bool {
			href := nodeAttr(n, "href")
			if href == "" || !platform.inURL(href) {
				return true
			}
			if platform == PlatformYouTube && isNonChannelPath(href) {
				return true
			}
			text := strings.TrimSpace(nodeText(n))
			if len([]rune(text)) <= 3 {
				return true
			}
			results = append(results, Result{
				Title: strutil.TruncateWith(text, 100, ""),
				URL:   unwrapRedirect(href),
			})
			return len(results) < maxResults
		})
		if len(results) >= maxResults {
			break
		}
	}
	return results, true
}

// unwrapRedirect recovers the destination from a /url?q=<target>&...
// wrapper. Decode failures fall back to the raw wrapped segment rather
// than discarding the candidate.
func unwrapRedirect(href string) string {
	if !strings.HasPrefix(href, "/url?q=") {
		return href
	}
	raw := strings.SplitN(strings.TrimPrefix(href, "/url?q="), "&", 2)[0]
	if decoded, err := url.QueryUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func isNonChannelPath(href string) bool {
	for _, p := range nonChannelPaths {
		if strings.Contains(href, p) {
			return true
		}
	}
	return false
}

// firstText returns the trimmed text of the first selector that yields
// a non-empty match within s.
func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstHref returns the href of the first selector that yields an
// element carrying one.
func firstHref(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if href, ok := s.Find(sel).First().Attr("href"); ok && href != "" {
			return href
		}
	}
	return ""
}

// walkAnchors visits every <a> under n in document order until visit
// returns false.
func walkAnchors(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && n.Data == "a" {
		if !visit(n) {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkAnchors(c, visit) {
			return false
		}
	}
	return true
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
