package feed

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanText trims and NFC-normalizes DOM text. Inner whitespace is kept as
// the page renders it.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ResolveURL returns href as an absolute URL. Relative references are
// resolved against base.
func ResolveURL(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty href")
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}

	if ref.IsAbs() {
		return ref.String(), nil
	}
	if base == nil {
		return "", fmt.Errorf("relative href %q without base URL", href)
	}

	return base.ResolveReference(ref).String(), nil
}
