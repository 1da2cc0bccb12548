package ports

import (
	"context"
	"time"

	"NarrativeScanner/internal/domain"
)

// ArticleSource supplies the raw article batch from the ingestion side.
type ArticleSource interface {
	Load(ctx context.Context) ([]domain.Article, error)
	MediaNames(ctx context.Context) ([]string, error)
}

// PageFetcher retrieves the raw HTML of an article page. Implementations
// own their retry policy and must return ErrPermanent-wrapped errors for
// failures that are not worth retrying.
type PageFetcher interface {
	Name() string
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// EnrichmentCache stores resolved snippets and images per URL, keyed
// independently for each content kind. Implementations must be safe for
// concurrent use by the orchestrator's worker pool.
type EnrichmentCache interface {
	Get(url string, kind domain.ContentKind) (domain.CacheEntry, bool)
	Put(url string, kind domain.ContentKind, entry domain.CacheEntry)
}

// Enricher fills missing text and image fields for a batch of articles.
type Enricher interface {
	Enrich(ctx context.Context, articles []domain.Article, progress ProgressFunc) ([]domain.Article, domain.EnrichmentReport, error)
}

// Summarizer condenses an extracted snippet. Implementations must degrade
// to a deterministic fallback (truncated input) instead of returning errors
// for missing configuration or upstream failures.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// LabelScorer computes per-label relevance scores for one article.
type LabelScorer interface {
	Score(ctx context.Context, article domain.Article) (domain.LabelScores, error)
}

// DatasetRepository persists the enriched, labeled dataset for the dashboard.
type DatasetRepository interface {
	SaveEnriched(ctx context.Context, articles []domain.Article) error
}

// Notifier publishes the per-batch enrichment report to an external channel.
type Notifier interface {
	PublishReport(ctx context.Context, report domain.EnrichmentReport) error
}

// Scheduler controls when pipeline batches execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// ProgressFunc reports batch progress to the host UI after each URL's work
// completes. A nil ProgressFunc is valid and means no reporting.
type ProgressFunc func(fraction float64, message string)
