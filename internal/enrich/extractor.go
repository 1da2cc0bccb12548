package enrich

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	snippetMaxLen    = 500
	truncationMarker = "..."
)

// Article-body containers checked before falling back to the whole document.
// Order matters: the first selector with a non-empty paragraph wins.
var snippetContainers = []string{
	"article",
	"div.article-body",
	"div.content-body",
	"div.story-content",
	"div.main-content",
	"div.post-content",
	"div.entry-content",
}

// Extractor derives a snippet or a representative image from fetched HTML
// through an ordered list of selector heuristics.
type Extractor struct{}

// NewExtractor returns a stateless extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Snippet returns the first plausible lead paragraph, truncated to
// snippetMaxLen runes, or "" when the document has no usable paragraph.
func (e *Extractor) Snippet(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, container := range snippetContainers {
		if text := firstParagraph(doc.Find(container)); text != "" {
			return truncateSnippet(text)
		}
	}

	if text := firstParagraph(doc.Selection); text != "" {
		return truncateSnippet(text)
	}

	return ""
}

// Image returns the first valid image URL found via og:image, twitter:image,
// an article-body <img>, or any <img>, resolving relative URLs against
// pageURL. Candidates rejected by the validator keep the search going.
func (e *Extractor) Image(html, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	base, _ := url.Parse(pageURL)

	for _, candidate := range imageCandidates(doc) {
		resolved := resolveImageURL(base, candidate)
		if ValidImageURL(resolved) {
			return resolved
		}
	}

	return ""
}

func imageCandidates(doc *goquery.Document) []string {
	var candidates []string

	if content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		candidates = append(candidates, content)
	}
	if content, ok := doc.Find(`meta[property="twitter:image"], meta[name="twitter:image"]`).First().Attr("content"); ok {
		candidates = append(candidates, content)
	}

	for _, container := range snippetContainers {
		doc.Find(container + " img").Each(func(_ int, img *goquery.Selection) {
			if src, ok := img.Attr("src"); ok {
				candidates = append(candidates, src)
			}
		})
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok {
			candidates = append(candidates, src)
		}
	})

	return candidates
}

func resolveImageURL(base *url.URL, candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || base == nil {
		return candidate
	}

	ref, err := url.Parse(candidate)
	if err != nil {
		return candidate
	}
	return base.ResolveReference(ref).String()
}

func firstParagraph(root *goquery.Selection) string {
	var found string
	root.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return true
		}
		found = text
		return false
	})
	return found
}

func truncateSnippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetMaxLen {
		return text
	}
	return string(runes[:snippetMaxLen]) + truncationMarker
}
