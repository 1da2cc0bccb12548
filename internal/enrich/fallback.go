package enrich

import (
	"fmt"
	"net/url"
)

const (
	noSnippetFallback    = "No snippet available."
	headlineSnippetLimit = 250
	placeholderImageURL  = "https://placehold.co/600x400?text=No+Image"
)

// FallbackSnippet derives the terminal snippet value from the headline when
// fetching or extraction yielded nothing.
func FallbackSnippet(headline string) string {
	if headline == "" {
		return noSnippetFallback
	}

	runes := []rune(headline)
	if len(runes) <= headlineSnippetLimit {
		return headline + truncationMarker
	}
	return string(runes[:headlineSnippetLimit]) + truncationMarker
}

// FallbackImage walks the decreasingly-specific image chain: a logo derived
// from the article's domain, then its favicon, then a generic placeholder.
// Derived candidates still pass the validator; the placeholder is terminal
// so the chain always produces a value.
func FallbackImage(articleURL string) string {
	if parsed, err := url.Parse(articleURL); err == nil && parsed.Host != "" {
		candidates := []string{
			fmt.Sprintf("https://%s/logo.png", parsed.Host),
			fmt.Sprintf("https://%s/favicon.ico", parsed.Host),
		}
		for _, candidate := range candidates {
			if ValidImageURL(candidate) {
				return candidate
			}
		}
	}
	return placeholderImageURL
}
