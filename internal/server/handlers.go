package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/codeboard-app/codeswitch/internal/engine"
	"github.com/codeboard-app/codeswitch/internal/langcodes"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
	"github.com/codeboard-app/codeswitch/internal/version"
)

// analyzeHandler processes analysis requests.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Bound the body well above the text limit to leave room for the JSON
	// envelope and multi-byte text.
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.maxTextLen)*4+4096)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		s.writeErrorResponse(w, "No text provided", http.StatusBadRequest)
		return
	}
	if len(req.Text) > s.maxTextLen {
		s.writeErrorResponse(w, "Text too long", http.StatusRequestEntityTooLarge)
		return
	}

	mode := req.Options.PerformanceMode
	if mode == "" {
		mode = s.defaultMode
	}
	switch mode {
	case engine.ModeFast, engine.ModeBalanced, engine.ModeAccurate:
	default:
		s.writeErrorResponse(w, "Invalid performance mode: "+mode, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.timeoutSec)*time.Second)
	defer cancel()

	start := time.Now()
	res := s.analyze(ctx, req.Text, req.UserLanguages, mode, req.Options.useCache())

	analyzeRequestsTotal.WithLabelValues(mode, "success").Inc()
	analyzeDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	analyzeTextLength.Observe(float64(len(req.Text)))
	switchPointsDetected.Observe(float64(len(res.SwitchPoints)))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding analyze response: %v\n", err)
	}
}

// analyze runs one analysis through the cache when one is configured.
// Cached results are shared read-only, so per-request fields are set on a
// shallow copy.
func (s *Server) analyze(ctx context.Context, text string, userLanguages []string, mode string, useCache bool) *pipeline.AnalysisResult {
	req := engine.Request{Text: text, UserLanguages: userLanguages, Mode: mode}

	if s.cache == nil || !useCache {
		res := *s.engines.Analyze(ctx, req)
		res.PerformanceMode = mode
		return &res
	}

	cached, hit, err := s.cache.GetOrCompute(text, userLanguages, mode, func() (*pipeline.AnalysisResult, error) {
		return s.engines.Analyze(ctx, req), nil
	})
	if err != nil {
		// The compute callback never fails; keep the degraded path anyway.
		res := *s.engines.Analyze(ctx, req)
		res.PerformanceMode = mode
		return &res
	}

	res := *cached
	res.CacheHit = hit
	res.PerformanceMode = mode
	return &res
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	if s.cache != nil {
		stats := s.cache.GetStats()
		response.Cache = &stats
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// languagesHandler returns the supported-language table.
func (s *Server) languagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	langs := langcodes.Supported()
	response := struct {
		Languages []langcodes.SupportedLanguage `json:"languages"`
		Count     int                           `json:"count"`
	}{Languages: langs, Count: len(langs)}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding languages response: %v\n", err)
	}
}

// cacheStatsHandler returns result cache statistics.
func (s *Server) cacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cache == nil {
		s.writeErrorResponse(w, "Cache disabled", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.cache.GetStats()); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding cache stats response: %v\n", err)
	}
}

// cacheClearHandler clears the result cache.
func (s *Server) cacheClearHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cache == nil {
		s.writeErrorResponse(w, "Cache disabled", http.StatusNotFound)
		return
	}

	s.cache.Clear()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ClearResponse{Success: true, Message: "cache cleared"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding cache clear response: %v\n", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
