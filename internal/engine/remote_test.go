package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteEngine_Analyze(t *testing.T) {
	var received wireRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		conf := 0.92
		calibrated := 0.88
		reliability := 0.8
		resp := wireResponse{
			Tokens: []wireToken{
				{Word: "Hello", Lang: "en", Confidence: 0.95},
				{Word: "mundo", Lang: "Spanish", Confidence: 0.9},
			},
			Phrases: []wirePhrase{
				{Words: []string{"Hello"}, Text: "Hello", Language: "English", StartIndex: 0, EndIndex: 0, Confidence: 0.95},
				{Words: []string{"mundo"}, Text: "mundo", Language: "Spanish", StartIndex: 1, EndIndex: 1, Confidence: 0.9},
			},
			SwitchPoints:         []int{1},
			Confidence:           &conf,
			DetectedLanguages:    []string{"English", "Spanish"},
			UserLanguageMatch:    true,
			CalibratedConfidence: &calibrated,
			ReliabilityScore:     &reliability,
			QualityAssessment:    "calibrated",
			CalibrationMethod:    "isotonic_piecewise",
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	eng := NewRemoteEngine(srv.URL)
	res, err := eng.Analyze(context.Background(), Request{
		Text:          "Hello mundo",
		UserLanguages: []string{"English", "Spanish"},
		Mode:          ModeBalanced,
	})
	require.NoError(t, err)

	// Outbound contract is snake_case.
	assert.Equal(t, "Hello mundo", received.Text)
	assert.Equal(t, []string{"English", "Spanish"}, received.UserLanguages)
	assert.Equal(t, ModeBalanced, received.PerformanceMode)
	assert.False(t, received.FastMode)

	// Language names are normalized to ISO codes at the boundary.
	require.Len(t, res.Tokens, 2)
	assert.Equal(t, "en", res.Tokens[0].Language)
	assert.Equal(t, "es", res.Tokens[1].Language)
	assert.Equal(t, []string{"en", "es"}, res.DetectedLanguages)
	require.Len(t, res.Phrases, 2)
	assert.Equal(t, "es", res.Phrases[1].Language)
	assert.True(t, res.Phrases[1].IsUserLanguage)
	assert.InDelta(t, 0.92, res.Confidence, 1e-9)
	assert.InDelta(t, 0.88, res.CalibratedConfidence, 1e-9)
	assert.Equal(t, []int{1}, res.SwitchPoints)
	assert.Positive(t, res.ProcessingTimeMs)
}

func TestRemoteEngine_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Missing required confidence field.
		_, _ = w.Write([]byte(`{"tokens":[{"word":"hi","lang":"en","confidence":0.9}]}`))
	}))
	defer srv.Close()

	eng := NewRemoteEngine(srv.URL)
	_, err := eng.Analyze(context.Background(), Request{Text: "hi"})
	assert.ErrorIs(t, err, ErrMalformedResult)
}

func TestRemoteEngine_MissingPhrases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Tokens and confidence present, phrases absent.
		_, _ = w.Write([]byte(`{"tokens":[{"word":"hi","lang":"en","confidence":0.9}],"confidence":0.9}`))
	}))
	defer srv.Close()

	eng := NewRemoteEngine(srv.URL)
	_, err := eng.Analyze(context.Background(), Request{Text: "hi"})
	assert.ErrorIs(t, err, ErrMalformedResult)
}

func TestRemoteEngine_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	eng := NewRemoteEngine(srv.URL)
	_, err := eng.Analyze(context.Background(), Request{Text: "hi"})
	assert.Error(t, err)
}

func TestRemoteEngine_TimeoutFallsThroughInSelector(t *testing.T) {
	// The handler blocks on a channel the test owns; releasing it before
	// srv.Close() runs gives the handler goroutine an exit path.
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	remote := NewRemoteEngine(srv.URL)
	sel := NewSelector(50*time.Millisecond, remote, NewMockEngine())

	res := sel.Analyze(context.Background(), Request{Text: "hola", UserLanguages: []string{"es"}})
	assert.Equal(t, "mock", res.Engine)
}

func TestNormalizeResponse_DropsUnknownDetectedLanguages(t *testing.T) {
	conf := 0.7
	w := &wireResponse{
		Tokens: []wireToken{{Word: "x", Language: "English", Confidence: 0.7}},
		Phrases: []wirePhrase{
			{Words: []string{"x"}, Text: "x", Language: "English", Confidence: 0.7},
		},
		Confidence:        &conf,
		DetectedLanguages: []string{"English", "martian", "english"},
	}
	res, err := normalizeResponse(w, Request{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, res.DetectedLanguages)
	assert.Equal(t, "unknown", res.QualityAssessment)
	assert.InDelta(t, 0.7, res.CalibratedConfidence, 1e-9)
}
