package engine

import (
	"context"

	"github.com/codeboard-app/codeswitch/internal/calibrate"
	"github.com/codeboard-app/codeswitch/internal/classifier"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// LocalEngine runs the in-process detection pipeline. The primary variant
// uses the full classifier chain and applies confidence calibration; the
// fast variant uses only the lightweight tier and passes raw confidence
// through.
type LocalEngine struct {
	name       string
	analyzer   *pipeline.Analyzer
	calibrated bool
}

// NewLocalEngine creates the primary local engine: full fallback chain
// plus calibration.
func NewLocalEngine(lowAccuracyMode bool) *LocalEngine {
	return &LocalEngine{
		name:       "local",
		analyzer:   pipeline.NewAnalyzer(classifier.NewDefaultChain(lowAccuracyMode), pipeline.DefaultConfig()),
		calibrated: true,
	}
}

// NewFastEngine creates the lightweight local engine used for the "fast"
// performance mode and as the fallback when the primary engine fails. Its
// results are marked eld_fallback and are not calibrated.
func NewFastEngine() *LocalEngine {
	return &LocalEngine{
		name:     "fast",
		analyzer: pipeline.NewAnalyzer(classifier.NewFastChain(), pipeline.DefaultConfig()),
	}
}

// Name identifies the engine in results and logs.
func (e *LocalEngine) Name() string { return e.name }

// Analyze runs the pipeline and attaches calibration metadata.
func (e *LocalEngine) Analyze(ctx context.Context, req Request) (*pipeline.AnalysisResult, error) {
	res, err := e.analyzer.Analyze(ctx, req.Text, req.UserLanguages)
	if err != nil {
		return nil, err
	}
	if res.QualityAssessment == pipeline.QualityEmptyText {
		return res, nil
	}

	var cal calibrate.Calibration
	if e.calibrated {
		cal = calibrate.Calibrate(res.Confidence, res.Tokens)
	} else {
		cal = calibrate.PassThrough(res.Confidence, calibrate.ReliabilityFallback, pipeline.QualityELDFallback)
	}
	res.CalibratedConfidence = cal.Confidence
	res.ReliabilityScore = cal.Reliability
	res.QualityAssessment = cal.Assessment
	res.CalibrationMethod = cal.Method
	return res, nil
}
