package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"NarrativeScanner/internal/domain"
	"NarrativeScanner/internal/ports"
)

const defaultWorkers = 4

// Threshold below which a snippet is not worth summarizing.
const defaultSummarizeMinLen = 150

// OrchestratorConfig tunes the enrichment batch run.
type OrchestratorConfig struct {
	// Workers bounds the fetch pool; politeness toward article hosts.
	Workers int
	// SkipFetch short-circuits all network work with headline fallbacks,
	// useful during development.
	SkipFetch bool
	// SummarizeMinLen is the minimum extracted-text length before the
	// optional summarizer is consulted.
	SummarizeMinLen int
}

// Orchestrator drives fetch, extraction, validation and fallback per URL and
// owns the enrichment cache: it is the only component that mutates it.
type Orchestrator struct {
	fetcher    ports.PageFetcher
	extractor  *Extractor
	cache      ports.EnrichmentCache
	summarizer ports.Summarizer
	cfg        OrchestratorConfig
	logger     *slog.Logger
}

var _ ports.Enricher = (*Orchestrator)(nil)

// NewOrchestrator wires the fetcher strategy, the injected cache and the
// optional summarizer stage (nil disables summarization).
func NewOrchestrator(fetcher ports.PageFetcher, cache ports.EnrichmentCache, summarizer ports.Summarizer, cfg OrchestratorConfig, logger *slog.Logger) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.SummarizeMinLen <= 0 {
		cfg.SummarizeMinLen = defaultSummarizeMinLen
	}
	return &Orchestrator{
		fetcher:    fetcher,
		extractor:  NewExtractor(),
		cache:      cache,
		summarizer: summarizer,
		cfg:        cfg,
		logger:     logger,
	}
}

type workItem struct {
	url       string
	headline  string
	needText  bool
	needImage bool
}

// Enrich fills missing text and image fields for every article. One URL's
// failure never aborts the batch; every article ends with non-empty values.
// The returned error is non-nil only when ctx is cancelled mid-run.
func (o *Orchestrator) Enrich(ctx context.Context, articles []domain.Article, progress ports.ProgressFunc) ([]domain.Article, domain.EnrichmentReport, error) {
	out := make([]domain.Article, len(articles))
	copy(out, articles)

	report := domain.EnrichmentReport{Articles: len(out)}

	if o.cfg.SkipFetch {
		o.applySkipFallbacks(out)
		return out, report, nil
	}

	worklist := buildWorklist(out)
	if len(worklist) == 0 {
		return out, report, nil
	}

	var (
		mu        sync.Mutex
		completed int
		fetched   int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.cfg.Workers)

	for _, item := range worklist {
		// Stop issuing new fetches once the caller cancels; in-flight
		// fetches run to their own timeout.
		if ctx.Err() != nil {
			break
		}

		item := item
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}

			didFetch := o.resolveURL(groupCtx, item)

			mu.Lock()
			completed++
			if didFetch {
				fetched++
			}
			fraction := float64(completed) / float64(len(worklist))
			mu.Unlock()

			if progress != nil {
				progress(fraction, fmt.Sprintf("processed (%d/%d): %s", completed, len(worklist), clipForStatus(item.url)))
			}
			return nil
		})
	}

	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return out, report, fmt.Errorf("enrichment cancelled: %w", err)
	}

	report.FetchedURLs = fetched
	o.join(out, &report)
	return out, report, nil
}

// buildWorklist partitions articles by outstanding kind and dedupes URLs so
// each distinct URL is fetched at most once per batch.
func buildWorklist(articles []domain.Article) []workItem {
	index := map[string]int{}
	var items []workItem

	for _, a := range articles {
		if a.URL == "" || (!a.NeedsText() && !a.NeedsImage()) {
			continue
		}
		i, ok := index[a.URL]
		if !ok {
			index[a.URL] = len(items)
			items = append(items, workItem{url: a.URL, headline: a.Headline})
			i = len(items) - 1
		}
		if a.NeedsText() {
			items[i].needText = true
		}
		if a.NeedsImage() {
			items[i].needImage = true
		}
	}
	return items
}

// resolveURL fetches and extracts the outstanding kinds for one URL, writing
// every result through the cache. Reports whether a network fetch happened.
func (o *Orchestrator) resolveURL(ctx context.Context, item workItem) bool {
	needText := item.needText
	needImage := item.needImage

	// Cache hits (Success or PermanentFailure) are final for this run.
	if _, ok := o.cache.Get(item.url, domain.KindText); ok {
		needText = false
	}
	if _, ok := o.cache.Get(item.url, domain.KindImage); ok {
		needImage = false
	}
	if !needText && !needImage {
		return false
	}

	html, err := o.fetcher.Fetch(ctx, item.url)
	if err != nil {
		o.log().Warn("fetch failed, applying fallbacks", "url", item.url, "error", err)
		o.markFailed(item.url, needText, needImage)
		return true
	}

	if needText {
		o.resolveText(ctx, item.url, html)
	}
	if needImage {
		o.resolveImage(item.url, html)
	}
	return true
}

func (o *Orchestrator) resolveText(ctx context.Context, url, html string) {
	snippet := o.extractor.Snippet(html)
	if snippet == "" {
		o.cache.Put(url, domain.KindText, domain.CacheEntry{Outcome: domain.OutcomePermanentFailure})
		return
	}

	if o.summarizer != nil && utf8.RuneCountInString(snippet) >= o.cfg.SummarizeMinLen {
		if summary, err := o.summarizer.Summarize(ctx, snippet); err == nil && summary != "" {
			snippet = summary
		}
	}

	o.cache.Put(url, domain.KindText, domain.CacheEntry{Value: snippet, Outcome: domain.OutcomeSuccess})
}

func (o *Orchestrator) resolveImage(url, html string) {
	image := o.extractor.Image(html, url)
	if image == "" {
		o.cache.Put(url, domain.KindImage, domain.CacheEntry{Outcome: domain.OutcomePermanentFailure})
		return
	}
	o.cache.Put(url, domain.KindImage, domain.CacheEntry{Value: image, Outcome: domain.OutcomeSuccess})
}

func (o *Orchestrator) markFailed(url string, text, image bool) {
	if text {
		o.cache.Put(url, domain.KindText, domain.CacheEntry{Outcome: domain.OutcomePermanentFailure})
	}
	if image {
		o.cache.Put(url, domain.KindImage, domain.CacheEntry{Outcome: domain.OutcomePermanentFailure})
	}
}

// join maps cached resolutions back onto every article row sharing a URL.
// PermanentFailure (or absent) entries synthesize the fallback chain, so no
// article leaves with blank text or image.
func (o *Orchestrator) join(articles []domain.Article, report *domain.EnrichmentReport) {
	for i := range articles {
		a := &articles[i]

		if a.NeedsText() {
			if entry, ok := o.cache.Get(a.URL, domain.KindText); ok && entry.Outcome == domain.OutcomeSuccess {
				a.Text = entry.Value
			} else {
				a.Text = FallbackSnippet(a.Headline)
				report.FailedSnippets++
			}
		}

		if a.NeedsImage() {
			if entry, ok := o.cache.Get(a.URL, domain.KindImage); ok && entry.Outcome == domain.OutcomeSuccess {
				a.ImageURL = entry.Value
			} else {
				a.ImageURL = FallbackImage(a.URL)
				report.FailedImages++
			}
		}
	}
}

// applySkipFallbacks mirrors the development toggle: headline-derived
// snippets and placeholder images, no network and no cache writes.
func (o *Orchestrator) applySkipFallbacks(articles []domain.Article) {
	for i := range articles {
		if articles[i].NeedsText() {
			articles[i].Text = FallbackSnippet(articles[i].Headline)
		}
		if articles[i].NeedsImage() {
			articles[i].ImageURL = FallbackImage(articles[i].URL)
		}
	}
}

func clipForStatus(url string) string {
	const max = 50
	if len(url) <= max {
		return url
	}
	return url[:max] + "..."
}

func (o *Orchestrator) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}
