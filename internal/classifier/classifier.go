// Package classifier assigns a language code and confidence to individual
// word tokens. Three interchangeable implementations form a capability
// hierarchy: a statistical n-gram detector (lingua), a lightweight trigram
// detector (whatlanggo), and a static function-word lexicon. The Chain ties
// them together as a pure fallback sequence.
package classifier

import "errors"

// MinConfidence is the threshold below which a tier's answer is treated as
// a miss and the next tier is consulted.
const MinConfidence = 0.6

// shortWordLimit is the maximum rune count for which statistical detection
// is considered unreliable; such words go straight to the lexicon.
const shortWordLimit = 2

// ErrNoMatch is returned when a classifier cannot assign a language.
var ErrNoMatch = errors.New("classifier: no language match")

// WordClassifier assigns a language to a single word. hint optionally
// restricts the candidate set to the given ISO-639-1 codes. Implementations
// return ErrNoMatch (or any other error) to signal that the caller should
// fall through to the next tier.
type WordClassifier interface {
	Classify(word string, hint []string) (lang string, confidence float64, err error)
	Name() string
}
