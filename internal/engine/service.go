package engine

import (
	"context"
	"time"

	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// Options configures the engine service.
type Options struct {
	// RemoteEndpoint, when set, puts an external detection service at the
	// top of the chain.
	RemoteEndpoint string
	// Timeout bounds each individual engine call.
	Timeout time.Duration
	// LowAccuracyMode shrinks the statistical models' memory footprint.
	LowAccuracyMode bool
}

// Service owns the engine chains for all performance modes. One Service is
// constructed at process start and shared across requests.
type Service struct {
	full *Selector
	fast *Selector
}

// NewService builds the engine chains. The full chain is
// remote → local → fast → mock; the fast chain skips the heavy tiers.
func NewService(opts Options) *Service {
	fastEngine := NewFastEngine()
	mock := NewMockEngine()

	full := make([]Engine, 0, 4)
	if opts.RemoteEndpoint != "" {
		full = append(full, NewRemoteEngine(opts.RemoteEndpoint))
	}
	full = append(full, NewLocalEngine(opts.LowAccuracyMode), fastEngine, mock)

	return &Service{
		full: NewSelector(opts.Timeout, full...),
		fast: NewSelector(opts.Timeout, fastEngine, mock),
	}
}

// Analyze routes the request to the chain matching its performance mode.
// Unrecognized modes get the balanced (full) chain. The returned result is
// always structurally valid.
func (s *Service) Analyze(ctx context.Context, req Request) *pipeline.AnalysisResult {
	if req.Mode == "" {
		req.Mode = ModeBalanced
	}
	if req.Mode == ModeFast {
		return s.fast.Analyze(ctx, req)
	}
	return s.full.Analyze(ctx, req)
}
