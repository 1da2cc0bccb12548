package llm

import (
	"context"
	"sync"
	"unicode/utf8"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"NarrativeScanner/internal/config"
	"NarrativeScanner/internal/ports"
)

const (
	systemPrompt     = "You condense news article excerpts into at most two plain sentences. Reply with the summary only."
	fallbackMaxRunes = 500
	fallbackMarker   = "..."
)

// Summarizer condenses extracted snippets through the OpenAI chat API. On
// missing configuration or any upstream failure it returns the truncated
// input instead of an error, so enrichment never degrades to a hard failure.
// Responses are cached by exact input text, independently of the enrichment
// cache.
type Summarizer struct {
	model string
	opts  []option.RequestOption

	mu    sync.Mutex
	cache map[string]string
}

var _ ports.Summarizer = (*Summarizer)(nil)

// NewSummarizer builds a summarizer from configuration; an empty API key
// yields a client that always answers with the deterministic fallback.
func NewSummarizer(cfg config.SummarizerConfig) *Summarizer {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Summarizer{
		model: cfg.Model,
		opts:  opts,
		cache: map[string]string{},
	}
}

// Summarize returns a condensed form of text, or the truncated original when
// the API is unavailable. The error return is always nil.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	if cached, ok := s.cache[text]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	summary := s.complete(ctx, text)
	if summary == "" {
		summary = truncate(text)
	}

	s.mu.Lock()
	s.cache[text] = summary
	s.mu.Unlock()

	return summary, nil
}

func (s *Summarizer) complete(ctx context.Context, text string) string {
	if len(s.opts) == 0 || s.model == "" {
		return ""
	}

	client := openai.NewClient(s.opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= fallbackMaxRunes {
		return text
	}
	return string([]rune(text)[:fallbackMaxRunes]) + fallbackMarker
}
