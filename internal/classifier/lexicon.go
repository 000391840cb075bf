package classifier

import "strings"

// lexiconConfidence is the fixed confidence assigned to lexicon hits.
// Closed-class function words are strong language signals but the table
// cannot disambiguate homographs (e.g. "no" in English and Spanish), so it
// never claims full confidence.
const lexiconConfidence = 0.8

// functionWords maps common closed-class words (articles, conjunctions,
// prepositions, pronouns) to their language. Very short words carry too
// little signal for statistical detection, so this table is the only tier
// consulted for them.
var functionWords = map[string]string{
	// English
	"the": "en", "and": "en", "or": "en", "but": "en", "of": "en",
	"to": "en", "in": "en", "is": "en", "it": "en", "at": "en",
	"on": "en", "for": "en", "with": "en", "this": "en", "that": "en",
	"a": "en", "an": "en", "we": "en", "he": "en", "she": "en",
	"my": "en", "not": "en", "yes": "en", "you": "en", "are": "en",

	// Spanish
	"el": "es", "los": "es", "las": "es", "y": "es", "pero": "es",
	"o": "es", "en": "es", "es": "es", "un": "es", "una": "es",
	"con": "es", "por": "es", "para": "es", "que": "es", "sí": "es",
	"yo": "es", "tú": "es", "mi": "es", "su": "es", "muy": "es",

	// French
	"le": "fr", "les": "fr", "et": "fr", "ou": "fr", "mais": "fr",
	"je": "fr", "tu": "fr", "il": "fr", "elle": "fr", "nous": "fr",
	"vous": "fr", "dans": "fr", "avec": "fr", "pour": "fr", "oui": "fr",
	"ce": "fr", "ne": "fr", "pas": "fr", "au": "fr", "aux": "fr",

	// German
	"der": "de", "die": "de", "das": "de", "und": "de", "oder": "de",
	"aber": "de", "ich": "de", "du": "de", "er": "de", "sie": "de",
	"wir": "de", "ist": "de", "ein": "de", "eine": "de", "mit": "de",
	"für": "de", "nicht": "de", "ja": "de", "auf": "de", "von": "de",

	// Italian
	"gli": "it", "ed": "it", "ma": "it", "io": "it", "lui": "it",
	"lei": "it", "noi": "it", "voi": "it", "del": "it", "della": "it",
	"nel": "it", "sono": "it", "sì": "it", "non": "it", "più": "it",

	// Portuguese
	"os": "pt", "as": "pt", "um": "pt", "uma": "pt", "não": "pt",
	"sim": "pt", "você": "pt", "eu": "pt", "ele": "pt", "ela": "pt",
	"com": "pt", "em": "pt", "do": "pt", "da": "pt", "mas": "pt",
}

// LexiconClassifier is the tertiary tier: a fixed lookup of common function
// words. It is always attempted for words too short for statistical
// detection and as the last resort when both upstream tiers fail.
type LexiconClassifier struct{}

// NewLexiconClassifier creates the static lookup tier.
func NewLexiconClassifier() *LexiconClassifier { return &LexiconClassifier{} }

// Name identifies this tier in logs and fallback bookkeeping.
func (c *LexiconClassifier) Name() string { return "lexicon" }

// Classify looks the word up in the function-word table. When a hint is
// given, hits outside the hint set are discarded; homograph entries then
// resolve in favor of declared languages.
func (c *LexiconClassifier) Classify(word string, hint []string) (string, float64, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	key = strings.Trim(key, ".,;:!?\"'()[]")
	code, ok := functionWords[key]
	if !ok {
		return "", 0, ErrNoMatch
	}
	if len(hint) > 0 && !containsCode(hint, code) {
		return "", 0, ErrNoMatch
	}
	return code, lexiconConfidence, nil
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}
