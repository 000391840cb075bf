package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChain assigns languages from a fixed word table and counts calls.
type scriptedChain struct {
	table map[string][2]interface{} // word -> {lang, confidence}
	calls int
}

func newScriptedChain(entries map[string]string) *scriptedChain {
	table := make(map[string][2]interface{}, len(entries))
	for word, lang := range entries {
		table[strings.ToLower(word)] = [2]interface{}{lang, 0.9}
	}
	return &scriptedChain{table: table}
}

func (c *scriptedChain) withConfidence(word, lang string, conf float64) *scriptedChain {
	c.table[strings.ToLower(word)] = [2]interface{}{lang, conf}
	return c
}

func (c *scriptedChain) Classify(word string, hint []string) (string, float64) {
	c.calls++
	key := strings.ToLower(strings.Trim(word, ".,;:!?\"'"))
	if entry, ok := c.table[key]; ok {
		return entry[0].(string), entry[1].(float64)
	}
	return "unknown", 0
}

func TestAnalyze_EmptyText(t *testing.T) {
	chain := newScriptedChain(nil)
	a := NewAnalyzer(chain, DefaultConfig())

	for _, text := range []string{"", "   ", "\t\n"} {
		res, err := a.Analyze(context.Background(), text, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Tokens)
		assert.Empty(t, res.Phrases)
		assert.Empty(t, res.SwitchPoints)
		assert.Zero(t, res.Confidence)
		assert.Equal(t, QualityEmptyText, res.QualityAssessment)
	}
	assert.Zero(t, chain.calls, "empty input must not invoke the classifier")
}

func TestAnalyze_SingleWord(t *testing.T) {
	chain := newScriptedChain(map[string]string{"hello": "en"})
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(), "Hello", []string{"English"})
	require.NoError(t, err)
	require.Len(t, res.Tokens, 1)
	assert.Equal(t, "en", res.Tokens[0].Language)
	assert.Empty(t, res.SwitchPoints)
	assert.True(t, res.UserLanguageMatch)
	assert.Equal(t, []string{"en"}, res.DetectedLanguages)
}

func TestAnalyze_CodeSwitching(t *testing.T) {
	chain := newScriptedChain(map[string]string{
		"i'm": "en", "going": "en", "to": "en", "the": "en", "store": "en",
		"pero": "es",
		"first": "en", "i": "en", "need": "en", "finish": "en", "this": "en", "work": "en",
	})
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(),
		"I'm going to the store, pero first I need to finish this work",
		[]string{"English", "Spanish"})
	require.NoError(t, err)
	assert.Contains(t, res.DetectedLanguages, "en")
	assert.Contains(t, res.DetectedLanguages, "es")
	assert.NotEmpty(t, res.SwitchPoints)
	assert.True(t, res.UserLanguageMatch)
}

func TestAnalyze_SwitchPointAtIndexOne(t *testing.T) {
	chain := newScriptedChain(map[string]string{"sí": "es", "yes": "en"})
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(), "Sí yes", []string{"Spanish", "English"})
	require.NoError(t, err)
	require.Len(t, res.Tokens, 2)
	assert.Equal(t, []int{1}, res.SwitchPoints)
}

func TestAnalyze_Deterministic(t *testing.T) {
	chain := newScriptedChain(map[string]string{"hello": "en", "mundo": "es"})
	a := NewAnalyzer(chain, DefaultConfig())

	first, err := a.Analyze(context.Background(), "Hello mundo", []string{"English", "Spanish"})
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), "Hello mundo", []string{"English", "Spanish"})
	require.NoError(t, err)

	assert.Equal(t, first.Tokens, second.Tokens)
	assert.Equal(t, first.SwitchPoints, second.SwitchPoints)
	assert.Equal(t, first.Phrases, second.Phrases)
}

func TestAnalyze_SwitchPointsStrictlyIncreasing(t *testing.T) {
	chain := newScriptedChain(map[string]string{
		"uno": "es", "two": "en", "tres": "es", "four": "en", "cinco": "es",
	})
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(), "uno two tres four cinco", nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.SwitchPoints)
	for i, sp := range res.SwitchPoints {
		assert.Greater(t, sp, 0)
		assert.Less(t, sp, len(res.Tokens))
		if i > 0 {
			assert.Greater(t, sp, res.SwitchPoints[i-1])
		}
	}
}

func TestAnalyze_LowConfidenceTokensDoNotSwitch(t *testing.T) {
	chain := newScriptedChain(map[string]string{"hello": "en", "world": "en"}).
		withConfidence("des", "fr", 0.3)
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(), "hello des world", nil)
	require.NoError(t, err)
	// The low-confidence middle token is skipped, not treated as a change.
	assert.Empty(t, res.SwitchPoints)
}

func TestAnalyze_PhrasePartitionInvariant(t *testing.T) {
	chain := newScriptedChain(map[string]string{
		"hola": "es", "amigo": "es", "how": "en", "are": "en", "you": "en", "bien": "es",
	})
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(), "hola amigo how are you bien", []string{"es"})
	require.NoError(t, err)

	var rebuilt []string
	prevEnd := -1
	for _, p := range res.Phrases {
		assert.Equal(t, prevEnd+1, p.StartIndex, "phrases must be contiguous")
		assert.Equal(t, p.StartIndex+len(p.Words)-1, p.EndIndex)
		rebuilt = append(rebuilt, p.Words...)
		prevEnd = p.EndIndex
	}
	assert.Equal(t, len(res.Tokens)-1, prevEnd)

	var original []string
	for _, tok := range res.Tokens {
		original = append(original, tok.Word)
	}
	assert.Equal(t, original, rebuilt)
}

func TestAnalyze_PhraseUserLanguageFlag(t *testing.T) {
	chain := newScriptedChain(map[string]string{"hola": "es", "hello": "en"})
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(), "hola hello", []string{"Spanish"})
	require.NoError(t, err)
	require.Len(t, res.Phrases, 2)
	assert.True(t, res.Phrases[0].IsUserLanguage)
	assert.False(t, res.Phrases[1].IsUserLanguage)
}

func TestAnalyze_AggregateConfidenceIsMean(t *testing.T) {
	chain := newScriptedChain(nil).
		withConfidence("aaa", "en", 0.8).
		withConfidence("bbb", "en", 0.6)
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(), "aaa bbb", nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, res.Confidence, 1e-9)
}

func TestAnalyze_NoUserLanguageMatch(t *testing.T) {
	chain := newScriptedChain(map[string]string{"bonjour": "fr"})
	a := NewAnalyzer(chain, DefaultConfig())

	res, err := a.Analyze(context.Background(), "bonjour", []string{"English"})
	require.NoError(t, err)
	assert.False(t, res.UserLanguageMatch)
}

func TestAnalyze_ContextCancellation(t *testing.T) {
	chain := newScriptedChain(map[string]string{"hello": "en"})
	a := NewAnalyzer(chain, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Analyze(ctx, "hello world", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
