// Package support holds the shared state and step definitions for the
// analysis API feature suite. Scenarios run against an in-process
// httptest server wired with the real engine chains.
package support

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/codeboard-app/codeswitch/internal/cache"
	"github.com/codeboard-app/codeswitch/internal/engine"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
	"github.com/codeboard-app/codeswitch/internal/server"
)

// TestContext holds the state for integration tests.
type TestContext struct {
	// Server under test
	HTTPServer *httptest.Server
	Cache      *cache.Cache

	// HTTP response state
	LastStatusCode int
	LastBody       []byte
	LastResult     *pipeline.AnalysisResult
	LastJSON       map[string]interface{}
}

// NewTestContext creates a new test context.
func NewTestContext() *TestContext {
	return &TestContext{}
}

// StartServer builds the analysis server and exposes it via httptest.
// The fast engine chain keeps scenarios quick and deterministic.
func (testCtx *TestContext) StartServer() error {
	testCtx.Cache = cache.New(100, time.Minute)

	srv, err := server.NewServer(server.Config{
		CORSOrigin:  "*",
		MaxTextLen:  10000,
		TimeoutSec:  10,
		DefaultMode: engine.ModeFast,
		Cache:       testCtx.Cache,
		Engines: engine.Options{
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)
	testCtx.HTTPServer = httptest.NewServer(mux)
	return nil
}

// Cleanup shuts the server down after each scenario.
func (testCtx *TestContext) Cleanup() {
	if testCtx.HTTPServer != nil {
		testCtx.HTTPServer.Close()
		testCtx.HTTPServer = nil
	}
	testCtx.LastStatusCode = 0
	testCtx.LastBody = nil
	testCtx.LastResult = nil
	testCtx.LastJSON = nil
}
