package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/codeboard-app/codeswitch/internal/common"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// RemoteEngine talks to an external detection service over HTTP. The wire
// contract is snake_case; all field-name and language-code normalization
// into the internal model happens here at the boundary (see normalize.go),
// never inside callers.
type RemoteEngine struct {
	endpoint   string
	httpClient *http.Client
}

// NewRemoteEngine creates a remote engine for the given /analyze endpoint.
// Request deadlines come from the caller's context; the selector wraps
// every call in its per-engine timeout.
func NewRemoteEngine(endpoint string) *RemoteEngine {
	return &RemoteEngine{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (e *RemoteEngine) SetHTTPClient(client *http.Client) {
	e.httpClient = client
}

// Name identifies the engine in results and logs.
func (e *RemoteEngine) Name() string { return "remote" }

// Analyze posts the request to the remote service and normalizes its
// response into the internal result shape.
func (e *RemoteEngine) Analyze(ctx context.Context, req Request) (*pipeline.AnalysisResult, error) {
	timer := common.NewNamedTimer("remote_analyze")

	wire := wireRequest{
		Text:            req.Text,
		UserLanguages:   req.UserLanguages,
		FastMode:        req.Mode == ModeFast,
		PerformanceMode: req.Mode,
	}
	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode remote request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build remote request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("remote engine call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("remote engine returned status %d: %s", resp.StatusCode, string(msg))
	}

	var wireResp wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return nil, fmt.Errorf("%w: decode remote response: %v", ErrMalformedResult, err)
	}

	result, err := normalizeResponse(&wireResp, req)
	if err != nil {
		return nil, err
	}
	result.ProcessingTimeMs = timer.Stop().Seconds() * 1000
	return result, nil
}
