package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"NarrativeScanner/internal/domain"
	"NarrativeScanner/internal/ports"
)

// Column renames applied to the upstream story-URL export.
var columnRenames = map[string]string{
	"title":        "headline",
	"publish_date": "date_published",
	"media_name":   "source_name",
	"urltoimage":   "image_url",
}

// Date layouts the export has been observed to use; anything unparseable is
// coerced to nil rather than raised.
var dateLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// CSVSource loads the article batch from a CSV export, either a local path
// or an HTTP(S) URL.
type CSVSource struct {
	location string
	client   *http.Client
	logger   *slog.Logger

	mu     sync.Mutex
	loaded []domain.Article
}

var _ ports.ArticleSource = (*CSVSource)(nil)

// NewCSVSource wires the export location; a nil client gets a default.
func NewCSVSource(location string, client *http.Client, logger *slog.Logger) *CSVSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &CSVSource{location: location, client: client, logger: logger}
}

// Load reads and normalizes the export into Article rows. Rows without a URL
// are dropped; missing optional cells become zero values.
func (s *CSVSource) Load(ctx context.Context) ([]domain.Article, error) {
	reader, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	records := csv.NewReader(reader)
	records.FieldsPerRecord = -1

	header, err := records.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if renamed, ok := columnRenames[key]; ok {
			key = renamed
		}
		columns[key] = i
	}
	if _, ok := columns["url"]; !ok {
		return nil, fmt.Errorf("export at %s has no url column", s.location)
	}

	var (
		articles []domain.Article
		dropped  int
	)
	for {
		row, err := records.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		article := rowToArticle(row, columns)
		if article.URL == "" {
			dropped++
			continue
		}
		articles = append(articles, article)
	}

	if s.logger != nil {
		s.logger.Info("loaded article export", "location", s.location, "articles", len(articles), "dropped", dropped)
	}

	s.mu.Lock()
	s.loaded = articles
	s.mu.Unlock()

	return articles, nil
}

// MediaNames returns the sorted unique source names for host-UI filters.
func (s *CSVSource) MediaNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	articles := s.loaded
	s.mu.Unlock()

	if articles == nil {
		var err error
		articles, err = s.Load(ctx)
		if err != nil {
			return nil, err
		}
	}

	seen := map[string]struct{}{}
	var names []string
	for _, a := range articles {
		if a.SourceName == "" {
			continue
		}
		if _, ok := seen[a.SourceName]; ok {
			continue
		}
		seen[a.SourceName] = struct{}{}
		names = append(names, a.SourceName)
	}

	sort.Strings(names)
	return names, nil
}

func (s *CSVSource) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download export: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("export returned %s", resp.Status)
		}
		return resp.Body, nil
	}

	file, err := os.Open(s.location)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	return file, nil
}

func rowToArticle(row []string, columns map[string]int) domain.Article {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		value := strings.TrimSpace(row[i])
		if value == "None" {
			return ""
		}
		return value
	}

	return domain.Article{
		Headline:      cell("headline"),
		URL:           cell("url"),
		SourceName:    cell("source_name"),
		DatePublished: coerceDate(cell("date_published")),
		Text:          cell("text"),
		ImageURL:      cell("image_url"),
	}
}

func coerceDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			day := parsed.UTC().Truncate(24 * time.Hour)
			return &day
		}
	}
	return nil
}
