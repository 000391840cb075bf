package classifier

import (
	"log/slog"
	"unicode/utf8"

	"github.com/codeboard-app/codeswitch/internal/langcodes"
)

// Chain runs word classification through an ordered sequence of tiers.
// Words at or below the short-word limit bypass the statistical tiers and
// go straight to the lexicon. A tier result is accepted only when the tier
// succeeds and its confidence clears MinConfidence; otherwise the next tier
// is consulted. Results from different tiers are never merged for the same
// word. A total miss yields ("unknown", 0).
type Chain struct {
	tiers   []WordClassifier
	lexicon WordClassifier
}

// NewChain builds a fallback chain from the given statistical tiers, in
// priority order, with lexicon as the short-word path and last resort.
func NewChain(lexicon WordClassifier, tiers ...WordClassifier) *Chain {
	return &Chain{tiers: tiers, lexicon: lexicon}
}

// NewDefaultChain wires the full capability hierarchy: lingua, then
// whatlang, then the lexicon.
func NewDefaultChain(lowAccuracyMode bool) *Chain {
	return NewChain(NewLexiconClassifier(), NewLinguaClassifier(lowAccuracyMode), NewWhatlangClassifier())
}

// NewFastChain wires only the lightweight tier plus the lexicon, for the
// "fast" performance mode and resource-constrained deployments.
func NewFastChain() *Chain {
	return NewChain(NewLexiconClassifier(), NewWhatlangClassifier())
}

// Classify resolves the language of a single word via the fallback chain.
func (c *Chain) Classify(word string, hint []string) (string, float64) {
	if utf8.RuneCountInString(word) <= shortWordLimit {
		return c.classifyWith(c.lexicon, word, hint)
	}

	for _, tier := range c.tiers {
		lang, conf, err := tier.Classify(word, hint)
		if err != nil {
			slog.Debug("classifier tier missed", "tier", tier.Name(), "word", word, "error", err)
			continue
		}
		if conf < MinConfidence {
			slog.Debug("classifier tier below threshold", "tier", tier.Name(), "word", word, "confidence", conf)
			continue
		}
		return lang, conf
	}
	return c.classifyWith(c.lexicon, word, hint)
}

func (c *Chain) classifyWith(tier WordClassifier, word string, hint []string) (string, float64) {
	lang, conf, err := tier.Classify(word, hint)
	if err != nil {
		return langcodes.Unknown, 0
	}
	return lang, conf
}
