package label

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"NarrativeScanner/internal/domain"
	"NarrativeScanner/internal/ports"
)

// Heuristic scoring constants. Kept in one named block so the weights the
// dataset was built with stay visible and tunable.
const (
	KeywordWeight   = 0.2
	StrongThreshold = 0.3
	FactualCenter   = 0.7
	NeutralCenter   = 0.6
	JitterSpread    = 0.1
	MaxScore        = 1.0
)

// Catch-all labels assigned when no narrative label scores strongly.
const (
	LabelFactual = "Factual"
	LabelNeutral = "Neutral"
)

// KeywordLabels maps each narrative label to the keywords that raise its
// score. Matching is a whole-word approximation over the lower-cased
// headline+text, not full tokenization.
var KeywordLabels = map[string][]string{
	"Pro-Russia":  {"russia", "kremlin", "putin", "russian forces", "moscow", "russian influence", "russia partnership"},
	"Anti-West":   {"western sanctions", "western interference", "nato", "eu policy", "western powers", "western interests", "western hypocrisy"},
	"Anti-France": {"france colonialism", "french influence", "paris policy", "french troops", "francafrique", "anti-france sentiment", "french withdrawal"},
	"Anti-US": {"anti-american", "us aggression", "us interference", "us sanctions", "american hegemony", "us imperialism", "us military presence",
		"us meddling", "us failed policy", "us-led", "criticism of us", "condemn us", "us withdraw"},
	"Sensationalist": {"shocking", "urgent", "breaking news", "exclusive", "bombshell", "crisis", "scandal", "explosive", "reveal", "warning", "catastrophe", "unprecedented"},
	"Opinion":        {"opinion", "analysis", "commentary", "viewpoint", "perspective", "column", "editorial", "blog", "critique"},
	"Business":       {"economy", "business", "market", "finance", "investment", "trade", "growth", "industry", "currency", "revenue", "jobs", "commerce", "development"},
	"Politics":       {"government", "election", "parliament", "president", "policy", "diplomacy", "governance", "democracy", "coup", "protest", "legislation", "political party", "reforms"},
}

// AllLabels returns every label an article carries a score for, keyword
// labels first, catch-alls last, in a stable order.
func AllLabels() []string {
	labels := make([]string, 0, len(KeywordLabels)+2)
	for _, name := range []string{"Pro-Russia", "Anti-West", "Anti-France", "Anti-US", "Sensationalist", "Opinion", "Business", "Politics"} {
		labels = append(labels, name)
	}
	return append(labels, LabelFactual, LabelNeutral)
}

// Scorer computes deterministic keyword-based relevance scores, with a
// cosmetic jitter on the catch-all labels drawn from the injected source.
type Scorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ ports.LabelScorer = (*Scorer)(nil)

// NewScorer builds a scorer around the given randomness source; a nil source
// gets an unseeded default.
func NewScorer(rng *rand.Rand) *Scorer {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Scorer{rng: rng}
}

// Score maps headline+text to one score per label. Pure given the rand
// source; touches no shared state beyond it.
func (s *Scorer) Score(_ context.Context, article domain.Article) (domain.LabelScores, error) {
	scores := make(domain.LabelScores, len(KeywordLabels)+2)
	for _, label := range AllLabels() {
		scores[label] = 0.0
	}

	combined := strings.ToLower(article.Headline) + " " + strings.ToLower(article.Text)

	strong := false
	for label, keywords := range KeywordLabels {
		var score float64
		for _, keyword := range keywords {
			if matchesWord(combined, keyword) {
				score += KeywordWeight
			}
		}
		if score > 0 {
			if score > MaxScore {
				score = MaxScore
			}
			scores[label] = score
			if score >= StrongThreshold {
				strong = true
			}
		}
	}

	if !strong {
		scores[LabelFactual] = FactualCenter + s.jitter()
		scores[LabelNeutral] = NeutralCenter + s.jitter()
	}

	clipScores(scores)
	return scores, nil
}

// matchesWord approximates a word-boundary match: the keyword bounded by
// spaces, or at the start or end of the combined string.
func matchesWord(text, keyword string) bool {
	return strings.Contains(text, " "+keyword+" ") ||
		strings.HasPrefix(text, keyword+" ") ||
		strings.HasSuffix(text, " "+keyword)
}

// jitter draws uniformly from [-JitterSpread, +JitterSpread].
func (s *Scorer) jitter() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.rng.Float64()*2 - 1) * JitterSpread
}

// clipScores clamps every score into [0, 1] as a final safety net.
func clipScores(scores domain.LabelScores) {
	for label, score := range scores {
		if score > MaxScore {
			scores[label] = MaxScore
		}
		if score < 0 {
			scores[label] = 0
		}
	}
}
