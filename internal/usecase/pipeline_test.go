package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NarrativeScanner/internal/domain"
	"NarrativeScanner/internal/ports"
)

type fakeSource struct {
	articles []domain.Article
}

func (f *fakeSource) Load(context.Context) ([]domain.Article, error) { return f.articles, nil }
func (f *fakeSource) MediaNames(context.Context) ([]string, error)   { return nil, nil }

type fakeEnricher struct {
	report domain.EnrichmentReport
}

func (f *fakeEnricher) Enrich(_ context.Context, articles []domain.Article, progress ports.ProgressFunc) ([]domain.Article, domain.EnrichmentReport, error) {
	out := make([]domain.Article, len(articles))
	copy(out, articles)
	for i := range out {
		if out[i].Text == "" {
			out[i].Text = "enriched snippet"
		}
		if out[i].ImageURL == "" {
			out[i].ImageURL = "https://cdn.example.com/photo.jpg"
		}
	}
	if progress != nil {
		progress(1.0, "done")
	}
	f.report.Articles = len(out)
	return out, f.report, nil
}

type fakeScorer struct{}

func (fakeScorer) Score(_ context.Context, a domain.Article) (domain.LabelScores, error) {
	return domain.LabelScores{"Factual": 0.7}, nil
}

type spyRepository struct {
	saved []domain.Article
}

func (s *spyRepository) SaveEnriched(_ context.Context, articles []domain.Article) error {
	s.saved = articles
	return nil
}

type spyNotifier struct {
	report *domain.EnrichmentReport
}

func (s *spyNotifier) PublishReport(_ context.Context, report domain.EnrichmentReport) error {
	s.report = &report
	return nil
}

func TestPipelineRunLabelsEveryArticle(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Enricher: &fakeEnricher{},
		Scorer:   fakeScorer{},
	})

	articles := []domain.Article{
		{Headline: "A", URL: "https://news.example/a"},
		{Headline: "B", URL: "https://news.example/b", Text: "existing"},
	}

	out, report, err := pipeline.Run(context.Background(), articles, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, report.Articles)

	for _, a := range out {
		assert.NotEmpty(t, a.Text)
		assert.NotEmpty(t, a.ImageURL)
		assert.Equal(t, 0.7, a.Labels["Factual"])
	}
}

func TestProcessBatchForwardsToSinks(t *testing.T) {
	t.Parallel()

	repo := &spyRepository{}
	notifier := &spyNotifier{}

	pipeline := NewPipeline(PipelineDeps{
		Source:     &fakeSource{articles: []domain.Article{{Headline: "A", URL: "https://news.example/a"}}},
		Enricher:   &fakeEnricher{report: domain.EnrichmentReport{FailedSnippets: 1}},
		Scorer:     fakeScorer{},
		Repository: repo,
		Notifier:   notifier,
	})

	require.NoError(t, pipeline.ProcessBatch(context.Background()))

	require.Len(t, repo.saved, 1)
	assert.Equal(t, "enriched snippet", repo.saved[0].Text)

	require.NotNil(t, notifier.report)
	assert.Equal(t, 1, notifier.report.FailedSnippets)
}

func TestProcessBatchWithoutSource(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{Enricher: &fakeEnricher{}, Scorer: fakeScorer{}})
	require.NoError(t, pipeline.ProcessBatch(context.Background()))
}
