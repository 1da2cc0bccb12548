package enrich

import "strings"

// Known non-content markers: site chrome, ads, tracking pixels. Substring
// match keeps the predicate cheap; occasional false positives are acceptable
// because a rejected candidate only moves the search to the next source.
var rejectedImageMarkers = []string{
	"logo",
	"banner",
	"sponsor",
	"doubleclick",
	"icon",
	"favicon",
	"ad.",
	"/ads/",
	"advert",
	"pixel",
	"spacer",
	"blank.gif",
	"1x1.gif",
	"tracking",
}

// ValidImageURL reports whether a candidate image URL plausibly points at
// article content. Pure predicate, no I/O.
func ValidImageURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}

	lowered := strings.ToLower(raw)
	for _, marker := range rejectedImageMarkers {
		if strings.Contains(lowered, marker) {
			return false
		}
	}
	return true
}
