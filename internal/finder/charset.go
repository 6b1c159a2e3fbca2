package finder

import (
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// decodeToUTF8 converts a response body to UTF-8 using the charset
// declared in the Content-Type header. Unknown charsets and decode
// failures fall back to the body as-is — extraction degrades rather
// than losing the page.
func decodeToUTF8(body []byte, contentType string) []byte {
	if contentType == "" {
		return body
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	name := strings.ToLower(strings.TrimSpace(params["charset"]))
	if name == "" || name == "utf-8" || name == "utf8" {
		return body
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}
