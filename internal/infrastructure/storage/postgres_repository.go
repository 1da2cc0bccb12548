package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"NarrativeScanner/internal/domain"
	"NarrativeScanner/internal/ports"
)

// PostgresRepository persists the enriched, labeled dataset for the
// dashboard, keyed by article URL.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.DatasetRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// SaveEnriched upserts each article snapshot; a nil DB is a no-op.
func (r *PostgresRepository) SaveEnriched(ctx context.Context, articles []domain.Article) error {
	if r.db == nil || len(articles) == 0 {
		return nil
	}

	for _, article := range articles {
		labels, err := json.Marshal(article.Labels)
		if err != nil {
			return fmt.Errorf("marshal labels for %s: %w", article.URL, err)
		}

		query := r.builder.
			Insert("enriched_articles").
			Columns("url", "headline", "source_name", "date_published", "snippet", "image_url", "label_scores").
			Values(article.URL, article.Headline, article.SourceName, article.DatePublished, article.Text, article.ImageURL, labels).
			Suffix(`ON CONFLICT (url) DO UPDATE
                SET snippet = EXCLUDED.snippet,
                    image_url = EXCLUDED.image_url,
                    label_scores = EXCLUDED.label_scores,
                    updated_at = NOW()`)

		stmt, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("build upsert for %s: %w", article.URL, err)
		}

		if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("upsert %s: %w", article.URL, err)
		}
	}

	return nil
}
