package domain

import "time"

// Article is a core entity describing one news story row in a batch.
// Headline, SourceName and Text use "" for absent values; DatePublished is
// nil when the upstream date could not be parsed.
type Article struct {
	Headline      string
	URL           string
	SourceName    string
	DatePublished *time.Time
	Text          string
	ImageURL      string
	Labels        LabelScores
}

// NeedsText reports whether the article still lacks a usable snippet.
func (a Article) NeedsText() bool {
	return isBlank(a.Text)
}

// NeedsImage reports whether the article still lacks a usable image URL.
func (a Article) NeedsImage() bool {
	return isBlank(a.ImageURL)
}

// Upstream CSV exports serialize missing cells as the literal "None".
func isBlank(s string) bool {
	return s == "" || s == "None"
}

// LabelScores maps a narrative label to its relevance score in [0, 1].
// Scores are independent: several labels may be elevated at once.
type LabelScores map[string]float64

// ContentKind distinguishes the two independently cached enrichment results.
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindImage ContentKind = "image"
)

// FetchOutcome records how a URL resolved for one content kind.
type FetchOutcome int

const (
	OutcomeSuccess FetchOutcome = iota
	OutcomePermanentFailure
)

// CacheEntry is the cached resolution of one (URL, kind) pair. A
// PermanentFailure entry carries no value; the fallback is synthesized per
// article at join time so headline-derived snippets stay stable across runs.
type CacheEntry struct {
	Value   string
	Outcome FetchOutcome
}

// EnrichmentReport aggregates the only user-visible failure signal:
// counts reported once per batch, never per article.
type EnrichmentReport struct {
	Articles       int
	FetchedURLs    int
	FailedSnippets int
	FailedImages   int
}
