// Package pipeline orchestrates word-level language classification into a
// full code-switching analysis: tokens, switch points, phrases, and
// aggregate confidence.
package pipeline

import (
	"context"
	"strings"

	"github.com/codeboard-app/codeswitch/internal/common"
	"github.com/codeboard-app/codeswitch/internal/langcodes"
	"github.com/codeboard-app/codeswitch/internal/tokenizer"
)

// MinSwitchConfidence is the minimum token confidence required for a token
// to participate in switch-point detection.
const MinSwitchConfidence = 0.6

// WordChain resolves the language of a single word, with an optional
// language-subset hint. The classifier fallback chain satisfies this; tests
// substitute scripted implementations.
type WordChain interface {
	Classify(word string, hint []string) (lang string, confidence float64)
}

// Config holds analyzer tunables.
type Config struct {
	// MinSwitchConfidence gates which tokens participate in switch-point
	// detection. Tokens below it are skipped, not treated as a change.
	MinSwitchConfidence float64
}

// DefaultConfig returns the default analyzer configuration.
func DefaultConfig() Config {
	return Config{MinSwitchConfidence: MinSwitchConfidence}
}

// Analyzer runs the detection pipeline over whole texts. It is stateless
// between requests and safe for concurrent use as long as the underlying
// chain is.
type Analyzer struct {
	cfg   Config
	chain WordChain
}

// NewAnalyzer creates an analyzer around the given word-classification chain.
func NewAnalyzer(chain WordChain, cfg Config) *Analyzer {
	if cfg.MinSwitchConfidence <= 0 {
		cfg.MinSwitchConfidence = MinSwitchConfidence
	}
	return &Analyzer{cfg: cfg, chain: chain}
}

// EmptyResult is the defined fast-path result for blank input. No
// classifier is invoked to produce it.
func EmptyResult() *AnalysisResult {
	return &AnalysisResult{
		Tokens:            []Token{},
		Phrases:           []Phrase{},
		SwitchPoints:      []int{},
		DetectedLanguages: []string{},
		QualityAssessment: QualityEmptyText,
		CalibrationMethod: "none",
	}
}

// Analyze segments text, classifies every token through the fallback
// chain, and assembles switch points, phrases, and aggregate statistics.
// Blank input returns the empty fast-path result. The context is checked
// between tokens so long inputs honor caller cancellation.
func (a *Analyzer) Analyze(ctx context.Context, text string, userLanguages []string) (*AnalysisResult, error) {
	timer := common.NewNamedTimer("analyze")

	if strings.TrimSpace(text) == "" {
		res := EmptyResult()
		res.ProcessingTimeMs = timer.Stop().Seconds() * 1000
		return res, nil
	}

	hint := langcodes.NormalizeList(userLanguages)
	userSet := langcodes.NormalizeSet(userLanguages)

	words := tokenizer.Segment(text)
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lang, conf := a.chain.Classify(w, hint)
		tokens = append(tokens, Token{Word: w, Language: lang, Confidence: conf})
	}

	result := &AnalysisResult{
		Tokens:            tokens,
		SwitchPoints:      a.switchPoints(tokens),
		Phrases:           clusterPhrases(tokens, userSet),
		Confidence:        meanConfidence(tokens),
		DetectedLanguages: detectedLanguages(tokens),
		QualityAssessment: QualityUnknown,
		CalibrationMethod: "none",
	}
	result.CalibratedConfidence = result.Confidence
	result.UserLanguageMatch = intersects(result.DetectedLanguages, userSet)
	result.ProcessingTimeMs = timer.Stop().Seconds() * 1000
	return result, nil
}

// switchPoints walks tokens left to right recording indices where the
// language changes. Only confident, known-language tokens participate;
// unqualified tokens are skipped rather than counted as a change, so the
// resulting indices are strictly increasing.
func (a *Analyzer) switchPoints(tokens []Token) []int {
	points := []int{}
	previous := ""
	for i, tok := range tokens {
		if tok.Language == langcodes.Unknown || tok.Confidence < a.cfg.MinSwitchConfidence {
			continue
		}
		if previous != "" && tok.Language != previous {
			points = append(points, i)
		}
		previous = tok.Language
	}
	return points
}

// clusterPhrases merges consecutive same-language tokens into phrases.
// Phrase confidence is the arithmetic mean of member token confidences.
func clusterPhrases(tokens []Token, userSet map[string]bool) []Phrase {
	phrases := []Phrase{}
	if len(tokens) == 0 {
		return phrases
	}

	start := 0
	for i := 1; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].Language == tokens[start].Language {
			continue
		}
		run := tokens[start:i]
		words := make([]string, len(run))
		sum := 0.0
		for j, t := range run {
			words[j] = t.Word
			sum += t.Confidence
		}
		lang := run[0].Language
		phrases = append(phrases, Phrase{
			Words:          words,
			Text:           strings.Join(words, " "),
			Language:       lang,
			Confidence:     sum / float64(len(run)),
			StartIndex:     start,
			EndIndex:       i - 1,
			IsUserLanguage: userSet[lang],
		})
		start = i
	}
	return phrases
}

func meanConfidence(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range tokens {
		sum += t.Confidence
	}
	return sum / float64(len(tokens))
}

// detectedLanguages returns unique non-unknown languages in order of first
// appearance.
func detectedLanguages(tokens []Token) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, t := range tokens {
		if t.Language == langcodes.Unknown || seen[t.Language] {
			continue
		}
		seen[t.Language] = true
		out = append(out, t.Language)
	}
	return out
}

// intersects reports whether any detected language is in the user-declared
// set. This is the documented userLanguageMatch policy: the detected set
// must share at least one element with the declared set.
func intersects(detected []string, userSet map[string]bool) bool {
	for _, lang := range detected {
		if userSet[lang] {
			return true
		}
	}
	return false
}
