package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NarrativeScanner/internal/domain"
	"NarrativeScanner/internal/ports"
)

// PipelineDeps wires all driven adapters into the enrichment pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Enricher   ports.Enricher
	Scorer     ports.LabelScorer
	Repository ports.DatasetRepository
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline composes enrichment output into scorer input and returns the
// final enriched, labeled dataset.
type Pipeline struct {
	source     ports.ArticleSource
	enricher   ports.Enricher
	scorer     ports.LabelScorer
	repository ports.DatasetRepository
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		enricher:   deps.Enricher,
		scorer:     deps.Scorer,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// Run enriches and labels the given batch. A nil progress callback is a
// no-op. Enrichment failures resolve to fallbacks and surface only through
// the aggregate report; the returned error is non-nil only on cancellation.
func (p *Pipeline) Run(ctx context.Context, articles []domain.Article, progress ports.ProgressFunc) ([]domain.Article, domain.EnrichmentReport, error) {
	enriched, report, err := p.enricher.Enrich(ctx, articles, progress)
	if err != nil {
		return nil, report, fmt.Errorf("enrich batch: %w", err)
	}

	for i := range enriched {
		scores, err := p.scorer.Score(ctx, enriched[i])
		if err != nil {
			p.log().Warn("label scoring failed", "url", enriched[i].URL, "error", err)
			scores = domain.LabelScores{}
		}
		enriched[i].Labels = scores
	}

	if report.FailedSnippets > 0 || report.FailedImages > 0 {
		p.log().Warn("batch finished with fallbacks",
			"failed_snippets", report.FailedSnippets,
			"failed_images", report.FailedImages,
			"fetched_urls", report.FetchedURLs)
	}

	return enriched, report, nil
}

// ProcessBatch loads a fresh batch from the source, runs the pipeline and
// forwards the result to the optional sinks. Sink failures are logged, not
// propagated: the dataset itself is still valid.
func (p *Pipeline) ProcessBatch(ctx context.Context) error {
	if p.source == nil {
		return nil
	}

	articles, err := p.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}
	if len(articles) == 0 {
		p.log().Info("no articles in batch")
		return nil
	}

	enriched, report, err := p.Run(ctx, articles, nil)
	if err != nil {
		return err
	}

	if p.repository != nil {
		if err := p.repository.SaveEnriched(ctx, enriched); err != nil {
			p.log().Error("persist dataset failed", "error", err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.PublishReport(ctx, report); err != nil {
			p.log().Error("publish report failed", "error", err)
		}
	}

	return nil
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}
