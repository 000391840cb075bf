// Package tokenizer splits raw text into word tokens while preserving the
// original order and surface forms. Token indices produced here are the
// indices that switch points and phrases refer to downstream.
package tokenizer

import "strings"

// sentenceTerminal reports whether r ends a sentence.
func sentenceTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences splits text on runs of sentence-terminal punctuation
// (. ! ?) and discards empty sentences. The punctuation itself is dropped;
// word-level analysis does not need it.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		if sentenceTerminal(r) {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Segment splits text into word tokens: sentences first, then whitespace
// within each sentence. Surrounding whitespace is trimmed but words are
// otherwise kept verbatim. Blank input yields an empty slice. The function
// is pure; the Nth element returned here becomes token index N in the
// analysis result.
func Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var words []string
	for _, sentence := range SplitSentences(text) {
		words = append(words, strings.Fields(sentence)...)
	}
	return words
}
