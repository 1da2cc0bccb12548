package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"NarrativeScanner/internal/ports"
)

// ErrPermanent marks fetch failures that must not be retried within the
// cache lifetime (HTTP 403/404).
var ErrPermanent = errors.New("permanent fetch failure")

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// FetchConfig bounds the retry behavior shared by all fetcher strategies.
type FetchConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration
}

// DefaultFetchConfig returns the standard fetch budget.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Timeout:    15 * time.Second,
	}
}

func (c FetchConfig) normalized() FetchConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	return c
}

// fetchWithRetry drives attempt() up to MaxRetries times with linear backoff
// (BaseDelay * attempt). Permanent errors short-circuit without consuming
// further attempts; waits are cancellable through ctx.
func fetchWithRetry(ctx context.Context, cfg FetchConfig, logger *slog.Logger, attempt func(context.Context) (string, error)) (string, error) {
	var lastErr error

	for i := 1; i <= cfg.MaxRetries; i++ {
		html, err := attempt(ctx)
		if err == nil {
			return html, nil
		}
		if errors.Is(err, ErrPermanent) {
			return "", err
		}

		lastErr = err
		if logger != nil {
			logger.Warn("fetch attempt failed", "attempt", i, "max_retries", cfg.MaxRetries, "error", err)
		}

		if i == cfg.MaxRetries {
			break
		}

		delay := cfg.BaseDelay * time.Duration(i)
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("fetch cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("exhausted %d attempts: %w", cfg.MaxRetries, lastErr)
}

func classifyStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("status %s: %w", resp.Status, ErrPermanent)
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}

// HTTPFetcher issues a plain browser-like GET for the article page.
type HTTPFetcher struct {
	client *http.Client
	cfg    FetchConfig
	logger *slog.Logger
}

var _ ports.PageFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher wires an HTTP client; a nil client gets the default timeout.
func NewHTTPFetcher(client *http.Client, cfg FetchConfig, logger *slog.Logger) *HTTPFetcher {
	cfg = cfg.normalized()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPFetcher{client: client, cfg: cfg, logger: logger}
}

// Name identifies the strategy inside the registry.
func (f *HTTPFetcher) Name() string {
	return "http"
}

// Fetch retrieves the page body, retrying transient failures.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	return fetchWithRetry(ctx, f.cfg, f.logger, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", browserUserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("request page: %w", err)
		}
		defer resp.Body.Close()

		if err := classifyStatus(resp); err != nil {
			return "", err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
		return string(body), nil
	})
}

// RenderedFetcher delegates to an external JS-rendering service that loads
// the page in a headless browser and returns the settled HTML. It shares the
// HTTPFetcher retry contract so the orchestrator can swap strategies freely.
type RenderedFetcher struct {
	endpoint string
	client   *http.Client
	cfg      FetchConfig
	logger   *slog.Logger
}

var _ ports.PageFetcher = (*RenderedFetcher)(nil)

// NewRenderedFetcher points at the rendering service's render endpoint.
func NewRenderedFetcher(endpoint string, client *http.Client, cfg FetchConfig, logger *slog.Logger) *RenderedFetcher {
	cfg = cfg.normalized()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &RenderedFetcher{endpoint: endpoint, client: client, cfg: cfg, logger: logger}
}

// Name identifies the strategy inside the registry.
func (f *RenderedFetcher) Name() string {
	return "rendered"
}

// Fetch posts the target URL to the rendering service and returns its HTML.
func (f *RenderedFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if f.endpoint == "" {
		return "", fmt.Errorf("rendered fetcher misconfigured: %w", ErrPermanent)
	}

	return fetchWithRetry(ctx, f.cfg, f.logger, func(ctx context.Context) (string, error) {
		payload, err := json.Marshal(map[string]string{"url": pageURL})
		if err != nil {
			return "", fmt.Errorf("marshal render request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", browserUserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("request render: %w", err)
		}
		defer resp.Body.Close()

		if err := classifyStatus(resp); err != nil {
			return "", err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
		return string(body), nil
	})
}

// FetcherRegistry keeps a mapping from strategy names to implementations,
// so the active backend is selected by configuration.
type FetcherRegistry struct {
	fetchers map[string]ports.PageFetcher
}

// NewFetcherRegistry builds an empty registry.
func NewFetcherRegistry() *FetcherRegistry {
	return &FetcherRegistry{fetchers: map[string]ports.PageFetcher{}}
}

// Register adds or replaces a fetcher strategy.
func (r *FetcherRegistry) Register(fetcher ports.PageFetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]ports.PageFetcher{}
	}
	r.fetchers[fetcher.Name()] = fetcher
}

// Resolve returns a fetcher by name or an error if it is absent.
func (r *FetcherRegistry) Resolve(name string) (ports.PageFetcher, error) {
	if fetcher, ok := r.fetchers[name]; ok {
		return fetcher, nil
	}
	return nil, fmt.Errorf("fetcher strategy %s is not registered", name)
}
