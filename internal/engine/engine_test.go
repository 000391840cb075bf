package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codeboard-app/codeswitch/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingEngine always errors, counting invocations.
type failingEngine struct {
	name  string
	calls int
}

func (e *failingEngine) Analyze(ctx context.Context, req Request) (*pipeline.AnalysisResult, error) {
	e.calls++
	return nil, errors.New("engine down")
}

func (e *failingEngine) Name() string { return e.name }

// canned returns a fixed result.
type canned struct {
	name   string
	result *pipeline.AnalysisResult
}

func (e *canned) Analyze(ctx context.Context, req Request) (*pipeline.AnalysisResult, error) {
	return e.result, nil
}

func (e *canned) Name() string { return e.name }

func validResult() *pipeline.AnalysisResult {
	return &pipeline.AnalysisResult{
		Tokens: []pipeline.Token{{Word: "hola", Language: "es", Confidence: 0.9}},
		Phrases: []pipeline.Phrase{
			{Words: []string{"hola"}, Text: "hola", Language: "es", Confidence: 0.9, StartIndex: 0, EndIndex: 0},
		},
		SwitchPoints:      []int{},
		Confidence:        0.9,
		DetectedLanguages: []string{"es"},
		QualityAssessment: pipeline.QualityCalibrated,
		CalibrationMethod: "none",
	}
}

func TestSelector_FirstEngineWins(t *testing.T) {
	first := &canned{name: "a", result: validResult()}
	second := &failingEngine{name: "b"}
	sel := NewSelector(time.Second, first, second)

	res := sel.Analyze(context.Background(), Request{Text: "hola"})
	assert.Equal(t, "a", res.Engine)
	assert.Zero(t, second.calls)
}

func TestSelector_FallsThroughOnError(t *testing.T) {
	first := &failingEngine{name: "a"}
	second := &canned{name: "b", result: validResult()}
	sel := NewSelector(time.Second, first, second)

	res := sel.Analyze(context.Background(), Request{Text: "hola"})
	assert.Equal(t, "b", res.Engine)
	assert.Equal(t, 1, first.calls)
}

func TestSelector_FallsThroughOnMalformedResult(t *testing.T) {
	malformed := validResult()
	malformed.QualityAssessment = ""
	first := &canned{name: "a", result: malformed}
	second := &canned{name: "b", result: validResult()}
	sel := NewSelector(time.Second, first, second)

	res := sel.Analyze(context.Background(), Request{Text: "hola"})
	assert.Equal(t, "b", res.Engine)
}

func TestSelector_TotalFailureReturnsMockResult(t *testing.T) {
	sel := NewSelector(time.Second, &failingEngine{name: "a"}, &failingEngine{name: "b"})

	res := sel.Analyze(context.Background(), Request{
		Text:          "hello world",
		UserLanguages: []string{"English"},
	})
	require.NotNil(t, res)
	assert.Equal(t, pipeline.QualityMockResult, res.QualityAssessment)
	assert.InDelta(t, 0.3, res.ReliabilityScore, 1e-9)
	assert.Len(t, res.Tokens, 2)
}

func TestValidateResult(t *testing.T) {
	req := Request{Text: "hola mundo"}

	assert.Error(t, validateResult(nil, req))

	ok := validResult()
	assert.NoError(t, validateResult(ok, req))

	noQuality := validResult()
	noQuality.QualityAssessment = ""
	assert.ErrorIs(t, validateResult(noQuality, req), ErrMalformedResult)

	badConf := validResult()
	badConf.Confidence = 1.5
	assert.ErrorIs(t, validateResult(badConf, req), ErrMalformedResult)

	noTokens := validResult()
	noTokens.Tokens = nil
	assert.ErrorIs(t, validateResult(noTokens, req), ErrMalformedResult)

	badSwitch := validResult()
	badSwitch.SwitchPoints = []int{5}
	assert.ErrorIs(t, validateResult(badSwitch, req), ErrMalformedResult)

	// Phrases must partition the token sequence.
	noPhrases := validResult()
	noPhrases.Phrases = nil
	assert.ErrorIs(t, validateResult(noPhrases, req), ErrMalformedResult)

	partialPhrases := validResult()
	partialPhrases.Tokens = append(partialPhrases.Tokens, pipeline.Token{Word: "mundo", Language: "es", Confidence: 0.9})
	assert.ErrorIs(t, validateResult(partialPhrases, req), ErrMalformedResult)
}

func TestMockEngine(t *testing.T) {
	mock := NewMockEngine()

	res, err := mock.Analyze(context.Background(), Request{
		Text:          "uno dos tres",
		UserLanguages: []string{"Spanish"},
	})
	require.NoError(t, err)
	require.Len(t, res.Tokens, 3)
	for _, tok := range res.Tokens {
		assert.Equal(t, "es", tok.Language)
		assert.InDelta(t, 0.5, tok.Confidence, 1e-9)
	}
	require.Len(t, res.Phrases, 1)
	assert.Equal(t, 0, res.Phrases[0].StartIndex)
	assert.Equal(t, 2, res.Phrases[0].EndIndex)
	assert.Equal(t, pipeline.QualityMockResult, res.QualityAssessment)
	assert.True(t, res.UserLanguageMatch)
}

func TestMockEngine_FirstDeclaredLanguageWins(t *testing.T) {
	mock := NewMockEngine()

	// Declared order decides, not alphabetical code order.
	res, err := mock.Analyze(context.Background(), Request{
		Text:          "hola mundo",
		UserLanguages: []string{"Spanish", "English"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Tokens)
	assert.Equal(t, "es", res.Tokens[0].Language)
	assert.Equal(t, []string{"es"}, res.DetectedLanguages)

	// Unresolvable entries fall through to the next declared language.
	res, err = mock.Analyze(context.Background(), Request{
		Text:          "hola mundo",
		UserLanguages: []string{"klingon", "English"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Tokens)
	assert.Equal(t, "en", res.Tokens[0].Language)
}

func TestMockEngine_NoUserLanguages(t *testing.T) {
	mock := NewMockEngine()

	res, err := mock.Analyze(context.Background(), Request{Text: "hello"})
	require.NoError(t, err)
	require.Len(t, res.Tokens, 1)
	assert.Equal(t, "unknown", res.Tokens[0].Language)
	assert.False(t, res.UserLanguageMatch)
	assert.Empty(t, res.DetectedLanguages)
}

func TestMockEngine_EmptyText(t *testing.T) {
	mock := NewMockEngine()

	res, err := mock.Analyze(context.Background(), Request{Text: "   "})
	require.NoError(t, err)
	assert.Equal(t, pipeline.QualityEmptyText, res.QualityAssessment)
	assert.Empty(t, res.Tokens)
}

func TestService_ModeRouting(t *testing.T) {
	svc := NewService(Options{Timeout: time.Second, LowAccuracyMode: true})

	res := svc.Analyze(context.Background(), Request{Text: "", Mode: ModeFast})
	require.NotNil(t, res)
	assert.Equal(t, pipeline.QualityEmptyText, res.QualityAssessment)

	res = svc.Analyze(context.Background(), Request{Text: "", Mode: "bogus"})
	require.NotNil(t, res)
	assert.Equal(t, pipeline.QualityEmptyText, res.QualityAssessment)
}
