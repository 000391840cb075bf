package engine

import (
	"fmt"

	"github.com/codeboard-app/codeswitch/internal/langcodes"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// Wire types for the external detection service. The service speaks
// snake_case and reports languages as human-readable names or codes
// interchangeably; everything is normalized into the internal camelCase
// model with ISO codes before leaving this file.

type wireRequest struct {
	Text            string   `json:"text"`
	UserLanguages   []string `json:"user_languages"`
	FastMode        bool     `json:"fast_mode"`
	PerformanceMode string   `json:"performance_mode"`
}

type wireToken struct {
	Word       string  `json:"word"`
	Lang       string  `json:"lang"`
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

type wirePhrase struct {
	Words          []string `json:"words"`
	Text           string   `json:"text"`
	Language       string   `json:"language"`
	Confidence     float64  `json:"confidence"`
	StartIndex     int      `json:"start_index"`
	EndIndex       int      `json:"end_index"`
	IsUserLanguage bool     `json:"is_user_language"`
}

type wireResponse struct {
	Tokens               []wireToken  `json:"tokens"`
	Phrases              []wirePhrase `json:"phrases"`
	SwitchPoints         []int        `json:"switch_points"`
	Confidence           *float64     `json:"confidence"`
	DetectedLanguages    []string     `json:"detected_languages"`
	UserLanguageMatch    bool         `json:"user_language_match"`
	CalibratedConfidence *float64     `json:"calibrated_confidence"`
	ReliabilityScore     *float64     `json:"reliability_score"`
	QualityAssessment    string       `json:"quality_assessment"`
	CalibrationMethod    string       `json:"calibration_method"`
}

// normalizeResponse converts a wire response into the internal result
// shape, translating language names to ISO codes and rejecting responses
// missing required fields.
func normalizeResponse(w *wireResponse, req Request) (*pipeline.AnalysisResult, error) {
	if w.Confidence == nil {
		return nil, fmt.Errorf("%w: missing confidence", ErrMalformedResult)
	}
	if len(w.Tokens) == 0 && req.Text != "" {
		return nil, fmt.Errorf("%w: missing tokens", ErrMalformedResult)
	}
	if len(w.Phrases) == 0 && req.Text != "" {
		return nil, fmt.Errorf("%w: missing phrases", ErrMalformedResult)
	}

	tokens := make([]pipeline.Token, len(w.Tokens))
	for i, t := range w.Tokens {
		lang := t.Lang
		if lang == "" {
			lang = t.Language
		}
		tokens[i] = pipeline.Token{
			Word:       t.Word,
			Language:   langcodes.ToCode(lang),
			Confidence: t.Confidence,
		}
	}

	userSet := langcodes.NormalizeSet(req.UserLanguages)
	phrases := make([]pipeline.Phrase, len(w.Phrases))
	for i, p := range w.Phrases {
		code := langcodes.ToCode(p.Language)
		phrases[i] = pipeline.Phrase{
			Words:          p.Words,
			Text:           p.Text,
			Language:       code,
			Confidence:     p.Confidence,
			StartIndex:     p.StartIndex,
			EndIndex:       p.EndIndex,
			IsUserLanguage: userSet[code],
		}
	}

	detected := make([]string, 0, len(w.DetectedLanguages))
	seen := make(map[string]bool)
	for _, l := range w.DetectedLanguages {
		code := langcodes.ToCode(l)
		if code == langcodes.Unknown || seen[code] {
			continue
		}
		seen[code] = true
		detected = append(detected, code)
	}

	res := &pipeline.AnalysisResult{
		Tokens:            tokens,
		Phrases:           phrases,
		SwitchPoints:      w.SwitchPoints,
		Confidence:        *w.Confidence,
		DetectedLanguages: detected,
		UserLanguageMatch: w.UserLanguageMatch,
		QualityAssessment: w.QualityAssessment,
		CalibrationMethod: w.CalibrationMethod,
	}
	if res.SwitchPoints == nil {
		res.SwitchPoints = []int{}
	}
	if res.QualityAssessment == "" {
		res.QualityAssessment = pipeline.QualityUnknown
	}
	if res.CalibrationMethod == "" {
		res.CalibrationMethod = "none"
	}
	if w.CalibratedConfidence != nil {
		res.CalibratedConfidence = *w.CalibratedConfidence
	} else {
		res.CalibratedConfidence = res.Confidence
	}
	if w.ReliabilityScore != nil {
		res.ReliabilityScore = *w.ReliabilityScore
	}
	return res, nil
}
