package app

import (
	"context"
	"log/slog"

	"NarrativeScanner/internal/config"
	"NarrativeScanner/internal/enrich"
	"NarrativeScanner/internal/infrastructure/llm"
	"NarrativeScanner/internal/infrastructure/ml"
	"NarrativeScanner/internal/infrastructure/scheduler"
	"NarrativeScanner/internal/infrastructure/storage"
	"NarrativeScanner/internal/infrastructure/telegram"
	"NarrativeScanner/internal/ingest"
	"NarrativeScanner/internal/label"
	"NarrativeScanner/internal/logging"
	"NarrativeScanner/internal/ports"
	"NarrativeScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := ingest.NewCSVSource(cfg.Ingest.Location, nil, baseLogger.With("component", "ingest"))

	fetchCfg := enrich.FetchConfig{
		MaxRetries: cfg.Fetcher.MaxRetries,
		BaseDelay:  cfg.Fetcher.BaseDelay,
		Timeout:    cfg.Fetcher.Timeout,
	}

	registry := enrich.NewFetcherRegistry()
	registry.Register(enrich.NewHTTPFetcher(nil, fetchCfg, baseLogger.With("component", "fetcher.http")))
	registry.Register(enrich.NewRenderedFetcher(cfg.Fetcher.RenderEndpoint, nil, fetchCfg, baseLogger.With("component", "fetcher.rendered")))

	fetcher, err := registry.Resolve(cfg.Fetcher.Strategy)
	if err != nil {
		baseLogger.Warn("unknown fetcher strategy, using http", "strategy", cfg.Fetcher.Strategy)
		fetcher, _ = registry.Resolve("http")
	}

	var summarizer ports.Summarizer
	if cfg.Summarizer.APIKey != "" {
		summarizer = llm.NewSummarizer(cfg.Summarizer)
	}

	orchestrator := enrich.NewOrchestrator(
		fetcher,
		enrich.NewMemoryCache(),
		summarizer,
		enrich.OrchestratorConfig{
			Workers:         cfg.Fetcher.Workers,
			SkipFetch:       cfg.Fetcher.SkipFetch,
			SummarizeMinLen: cfg.Summarizer.MinLength,
		},
		baseLogger.With("component", "orchestrator"),
	)

	var scorer ports.LabelScorer = label.NewScorer(nil)
	if cfg.Classifier.InferenceURL != "" {
		scorer = ml.NewClient(cfg.Classifier.InferenceURL, cfg.Classifier.APIKey, scorer)
	}

	var repository ports.DatasetRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			baseLogger.Error("database unavailable, dataset sink disabled", "error", err)
		} else {
			repository = storage.NewPostgresRepository(db)
		}
	}

	var notifier ports.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Enricher:   orchestrator,
		Scorer:     scorer,
		Repository: repository,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}
}

// Run executes one batch, or keeps re-running on the configured interval
// until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if a.cfg.Scheduler.Interval <= 0 {
		return a.pipeline.ProcessBatch(ctx)
	}

	sched := usecase.NewScheduler(scheduler.NewTickerScheduler(a.cfg.Scheduler.Interval), a.pipeline)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}
