package engine

import (
	"context"
	"strings"

	"github.com/codeboard-app/codeswitch/internal/calibrate"
	"github.com/codeboard-app/codeswitch/internal/langcodes"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// mockConfidence is the fixed confidence assigned by the degenerate
// last-resort engine.
const mockConfidence = 0.5

// MockEngine is the terminal tier of the fallback chain. It performs no
// real detection: tokens are split on whitespace and all get the first
// user-declared language at fixed low confidence. It never fails, which
// makes the engine chain total.
type MockEngine struct{}

// NewMockEngine creates the last-resort engine.
func NewMockEngine() *MockEngine { return &MockEngine{} }

// Name identifies the engine in results and logs.
func (e *MockEngine) Name() string { return "mock" }

// Analyze returns the degenerate well-formed result.
func (e *MockEngine) Analyze(_ context.Context, req Request) (*pipeline.AnalysisResult, error) {
	return mockResult(req), nil
}

func mockResult(req Request) *pipeline.AnalysisResult {
	if strings.TrimSpace(req.Text) == "" {
		return pipeline.EmptyResult()
	}

	// First user-declared language that resolves to a known code, in the
	// order the user gave them.
	lang := langcodes.Unknown
	for _, l := range req.UserLanguages {
		if code := langcodes.ToCode(l); code != langcodes.Unknown {
			lang = code
			break
		}
	}

	words := strings.Fields(req.Text)
	tokens := make([]pipeline.Token, len(words))
	for i, w := range words {
		tokens[i] = pipeline.Token{Word: w, Language: lang, Confidence: mockConfidence}
	}

	detected := []string{}
	if lang != langcodes.Unknown {
		detected = []string{lang}
	}

	res := &pipeline.AnalysisResult{
		Tokens:       tokens,
		SwitchPoints: []int{},
		Phrases: []pipeline.Phrase{{
			Words:          words,
			Text:           strings.Join(words, " "),
			Language:       lang,
			Confidence:     mockConfidence,
			StartIndex:     0,
			EndIndex:       len(words) - 1,
			IsUserLanguage: lang != langcodes.Unknown,
		}},
		Confidence:        mockConfidence,
		DetectedLanguages: detected,
		UserLanguageMatch: lang != langcodes.Unknown,
	}

	cal := calibrate.PassThrough(mockConfidence, calibrate.ReliabilityMock, pipeline.QualityMockResult)
	res.CalibratedConfidence = cal.Confidence
	res.ReliabilityScore = cal.Reliability
	res.QualityAssessment = cal.Assessment
	res.CalibrationMethod = cal.Method
	return res
}
