package classifier

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// LinguaClassifier is the primary statistical tier. It uses lingua's n-gram
// and script models, which cover Latin and non-Latin scripts. Detectors are
// built lazily and cached per hint set because model construction is
// expensive relative to classification.
type LinguaClassifier struct {
	mu        sync.Mutex
	all       lingua.LanguageDetector
	allOnce   sync.Once
	byHint    map[string]lingua.LanguageDetector
	lowAccMem bool
}

// NewLinguaClassifier creates the primary statistical classifier.
// lowAccuracyMode trades accuracy for a smaller memory footprint.
func NewLinguaClassifier(lowAccuracyMode bool) *LinguaClassifier {
	return &LinguaClassifier{
		byHint:    make(map[string]lingua.LanguageDetector),
		lowAccMem: lowAccuracyMode,
	}
}

// Name identifies this tier in logs and fallback bookkeeping.
func (c *LinguaClassifier) Name() string { return "lingua" }

// Classify returns the most likely language for word. The hint, when
// non-empty, restricts the detector to those languages, which materially
// improves per-word accuracy for code-switched text.
func (c *LinguaClassifier) Classify(word string, hint []string) (string, float64, error) {
	det := c.detectorFor(hint)
	values := det.ComputeLanguageConfidenceValues(word)
	if len(values) == 0 {
		return "", 0, ErrNoMatch
	}
	top := values[0]
	code := strings.ToLower(top.Language().IsoCode639_1().String())
	if code == "" {
		return "", 0, ErrNoMatch
	}
	return code, top.Value(), nil
}

func (c *LinguaClassifier) detectorFor(hint []string) lingua.LanguageDetector {
	langs := linguaLanguages(hint)
	if len(langs) < 2 {
		// lingua requires at least two candidate languages; fall back to
		// the full model set.
		c.allOnce.Do(func() {
			c.all = c.build(lingua.AllLanguages())
		})
		return c.all
	}

	key := strings.Join(hint, ",")
	c.mu.Lock()
	defer c.mu.Unlock()
	if det, ok := c.byHint[key]; ok {
		return det
	}
	det := c.build(langs)
	c.byHint[key] = det
	return det
}

func (c *LinguaClassifier) build(langs []lingua.Language) lingua.LanguageDetector {
	b := lingua.NewLanguageDetectorBuilder().FromLanguages(langs...)
	if c.lowAccMem {
		b = b.WithLowAccuracyMode()
	}
	return b.Build()
}

var (
	linguaByCodeOnce sync.Once
	linguaByCode     map[string]lingua.Language
)

// linguaLanguages converts ISO-639-1 codes to lingua languages, dropping
// codes lingua does not model.
func linguaLanguages(codes []string) []lingua.Language {
	linguaByCodeOnce.Do(func() {
		linguaByCode = make(map[string]lingua.Language)
		for _, l := range lingua.AllLanguages() {
			linguaByCode[strings.ToLower(l.IsoCode639_1().String())] = l
		}
	})
	out := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		if l, ok := linguaByCode[strings.ToLower(code)]; ok {
			out = append(out, l)
		}
	}
	return out
}
