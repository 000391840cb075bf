// Package engine provides the engine-level fallback chain. Engines are
// tried in priority order; each call is bounded by a timeout, and failures
// or malformed output fall through to the next tier. The chain is total:
// the last tier is a mock engine that never fails, so callers always
// receive a structurally valid result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// Performance modes selecting the starting tier of the chain.
const (
	ModeFast     = "fast"
	ModeBalanced = "balanced"
	ModeAccurate = "accurate"
)

// DefaultTimeout bounds a single engine invocation.
const DefaultTimeout = 30 * time.Second

// ErrMalformedResult signals that an engine produced output missing
// required fields; treated identically to engine unavailability.
var ErrMalformedResult = errors.New("engine: malformed result")

// Request is one analysis request as seen by engines.
type Request struct {
	Text          string
	UserLanguages []string
	Mode          string
}

// Engine is a single analysis backend.
type Engine interface {
	Analyze(ctx context.Context, req Request) (*pipeline.AnalysisResult, error)
	Name() string
}

// Selector runs requests through an ordered engine chain.
type Selector struct {
	engines []Engine
	timeout time.Duration
}

// NewSelector builds a selector over the given engines, best tier first.
// The caller is expected to terminate the list with a Mock engine; the
// selector nevertheless degrades to a mock result on total failure so it
// never returns an error for a well-formed request.
func NewSelector(timeout time.Duration, engines ...Engine) *Selector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Selector{engines: engines, timeout: timeout}
}

// Analyze tries each engine in order until one returns a well-formed
// result. Timeouts, errors, and malformed output all fall through to the
// next tier.
func (s *Selector) Analyze(ctx context.Context, req Request) *pipeline.AnalysisResult {
	for _, eng := range s.engines {
		res, err := s.tryEngine(ctx, eng, req)
		if err != nil {
			slog.Warn("engine failed, falling through",
				"engine", eng.Name(), "error", err)
			continue
		}
		res.Engine = eng.Name()
		return res
	}
	slog.Error("all engines failed, returning mock result")
	res := mockResult(req)
	res.Engine = "mock"
	return res
}

func (s *Selector) tryEngine(ctx context.Context, eng Engine, req Request) (*pipeline.AnalysisResult, error) {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := eng.Analyze(tctx, req)
	if err != nil {
		return nil, err
	}
	if err := validateResult(res, req); err != nil {
		return nil, err
	}
	return res, nil
}

// validateResult rejects structurally nonsensical engine output so the
// selector can fall through instead of surfacing garbage.
func validateResult(res *pipeline.AnalysisResult, req Request) error {
	if res == nil {
		return fmt.Errorf("%w: nil result", ErrMalformedResult)
	}
	if res.QualityAssessment == "" {
		return fmt.Errorf("%w: missing quality assessment", ErrMalformedResult)
	}
	if res.Confidence < 0 || res.Confidence > 1 {
		return fmt.Errorf("%w: confidence %f out of range", ErrMalformedResult, res.Confidence)
	}
	if res.QualityAssessment != pipeline.QualityEmptyText && len(res.Tokens) == 0 && req.Text != "" {
		return fmt.Errorf("%w: no tokens for non-empty text", ErrMalformedResult)
	}
	if len(res.Tokens) > 0 {
		words := 0
		for _, p := range res.Phrases {
			words += len(p.Words)
		}
		if words != len(res.Tokens) {
			return fmt.Errorf("%w: phrases cover %d words for %d tokens", ErrMalformedResult, words, len(res.Tokens))
		}
	}
	for i, sp := range res.SwitchPoints {
		if sp <= 0 || sp >= len(res.Tokens) {
			return fmt.Errorf("%w: switch point %d out of range", ErrMalformedResult, sp)
		}
		if i > 0 && sp <= res.SwitchPoints[i-1] {
			return fmt.Errorf("%w: switch points not strictly increasing", ErrMalformedResult)
		}
	}
	return nil
}
