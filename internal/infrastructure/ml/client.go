package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"NarrativeScanner/internal/domain"
	"NarrativeScanner/internal/ports"
)

// Client talks to an external inference service for label scoring. The
// fallback scorer keeps batches working when the service is down or
// unconfigured.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	fallback ports.LabelScorer
}

var _ ports.LabelScorer = (*Client)(nil)

// NewClient creates a reusable inference client with a mandatory fallback
// scorer.
func NewClient(endpoint, apiKey string, fallback ports.LabelScorer) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
		fallback: fallback,
	}
}

// Score posts headline+text for classification; any failure defers to the
// fallback scorer so label scores are always produced.
func (c *Client) Score(ctx context.Context, article domain.Article) (domain.LabelScores, error) {
	if c.endpoint == "" {
		return c.fallback.Score(ctx, article)
	}

	payload := map[string]any{
		"headline": article.Headline,
		"text":     article.Text,
	}

	var resp struct {
		Scores map[string]float64 `json:"scores"`
	}
	if err := c.post(ctx, "/label", payload, &resp); err != nil {
		return c.fallback.Score(ctx, article)
	}
	if len(resp.Scores) == 0 {
		return c.fallback.Score(ctx, article)
	}

	scores := make(domain.LabelScores, len(resp.Scores))
	for label, score := range resp.Scores {
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		scores[label] = score
	}
	return scores, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
