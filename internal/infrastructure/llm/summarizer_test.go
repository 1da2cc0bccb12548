package llm

import (
	"context"
	"strings"
	"testing"

	"NarrativeScanner/internal/config"
)

func TestSummarizeWithoutConfigurationFallsBack(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(config.SummarizerConfig{})

	text := "A short extracted snippet about a trade agreement."
	got, err := s.Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("Summarize must not return errors: %v", err)
	}
	if got != text {
		t.Fatalf("fallback must return the original text, got %q", got)
	}
}

func TestSummarizeFallbackTruncatesLongInput(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(config.SummarizerConfig{})

	long := strings.Repeat("x", 700)
	got, err := s.Summarize(context.Background(), long)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}

	want := strings.Repeat("x", fallbackMaxRunes) + fallbackMarker
	if got != want {
		t.Fatalf("expected truncated fallback of %d runes, got %d", fallbackMaxRunes, len(got))
	}
}

func TestSummarizeCachesByExactInput(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(config.SummarizerConfig{})

	text := "Cache me once."
	first, _ := s.Summarize(context.Background(), text)
	second, _ := s.Summarize(context.Background(), text)

	if first != second {
		t.Fatalf("cached summary must be stable: %q vs %q", first, second)
	}

	s.mu.Lock()
	_, cached := s.cache[text]
	s.mu.Unlock()
	if !cached {
		t.Fatal("summary must be cached by exact input text")
	}
}
