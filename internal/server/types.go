package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codeboard-app/codeswitch/internal/cache"
	"github.com/codeboard-app/codeswitch/internal/engine"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// engineService defines the methods needed by the server from the engine
// layer.
type engineService interface {
	Analyze(ctx context.Context, req engine.Request) *pipeline.AnalysisResult
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	engines     engineService
	cache       *cache.Cache
	rateLimiter *RateLimiter
	corsOrigin  string
	maxTextLen  int
	timeoutSec  int
	defaultMode string
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxTextLen  int
	TimeoutSec  int
	DefaultMode string
	// Cache may be nil to disable result caching.
	Cache     *cache.Cache
	RateLimit RateLimitConfig
	Engines   engine.Options
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxTextPerDay     int64
}

// Request and response types for API endpoints.

// AnalyzeOptions carries per-request tuning.
type AnalyzeOptions struct {
	PerformanceMode string `json:"performanceMode,omitempty"`
	// UseCache defaults to true; set to false to bypass the result cache
	// for this request.
	UseCache *bool `json:"useCache,omitempty"`
}

// useCache resolves the tri-state flag against its default.
func (o AnalyzeOptions) useCache() bool {
	return o.UseCache == nil || *o.UseCache
}

// AnalyzeRequest is the inbound analysis request body.
type AnalyzeRequest struct {
	Text          string         `json:"text"`
	UserLanguages []string       `json:"userLanguages"`
	Options       AnalyzeOptions `json:"options"`
}

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status  string       `json:"status"`
	Version string       `json:"version,omitempty"`
	Time    string       `json:"time"`
	Cache   *cache.Stats `json:"cache,omitempty"`
}

// ClearResponse confirms an administrative cache clear.
type ClearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewServer creates a new analysis server instance.
func NewServer(config Config) (*Server, error) {
	var limiter *RateLimiter
	if config.RateLimit.Enabled {
		limiter = NewRateLimiter(
			config.RateLimit.RequestsPerMinute,
			config.RateLimit.RequestsPerHour,
			config.RateLimit.MaxRequestsPerDay,
			config.RateLimit.MaxTextPerDay,
		)
	}
	defaultMode := config.DefaultMode
	if defaultMode == "" {
		defaultMode = engine.ModeBalanced
	}
	return &Server{
		engines:     engine.NewService(config.Engines),
		cache:       config.Cache,
		rateLimiter: limiter,
		corsOrigin:  config.CORSOrigin,
		maxTextLen:  config.MaxTextLen,
		timeoutSec:  config.TimeoutSec,
		defaultMode: defaultMode,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/analyze", s.corsMiddleware(s.rateLimitMiddleware(s.analyzeHandler)))
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/languages", s.corsMiddleware(s.languagesHandler))
	mux.HandleFunc("/cache/stats", s.corsMiddleware(s.cacheStatsHandler))
	mux.HandleFunc("/cache/clear", s.corsMiddleware(s.cacheClearHandler))
	mux.HandleFunc("/ws/analyze", s.analyzeWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
