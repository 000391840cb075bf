package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

func dialWebSocket(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/analyze"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocketAnalyze(t *testing.T) {
	engines := &stubEngines{result: stubResult()}
	s := newTestServer(t, engines, false)
	conn := dialWebSocket(t, s)

	req := WebSocketAnalyzeRequest{
		Text:          "Hello mundo",
		UserLanguages: []string{"English", "Spanish"},
		RequestID:     "req-1",
	}
	require.NoError(t, conn.WriteJSON(req))

	var resp WebSocketAnalyzeResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "analyze_response", resp.Type)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "req-1", resp.RequestID)

	// Round-trip the embedded result.
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var res pipeline.AnalysisResult
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, []int{1}, res.SwitchPoints)
	assert.True(t, res.UserLanguageMatch)
}

func TestWebSocketAnalyze_EmptyText(t *testing.T) {
	s := newTestServer(t, &stubEngines{result: stubResult()}, false)
	conn := dialWebSocket(t, s)

	require.NoError(t, conn.WriteJSON(WebSocketAnalyzeRequest{Text: "   "}))

	var resp WebSocketAnalyzeResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
	assert.Equal(t, "invalid_request", resp.ErrorType)
}

func TestWebSocketAnalyze_InvalidJSON(t *testing.T) {
	s := newTestServer(t, &stubEngines{result: stubResult()}, false)
	conn := dialWebSocket(t, s)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var resp WebSocketAnalyzeResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
}

func TestWebSocketAnalyze_MultipleMessages(t *testing.T) {
	engines := &stubEngines{result: stubResult()}
	s := newTestServer(t, engines, false)
	conn := dialWebSocket(t, s)

	for i := 0; i < 3; i++ {
		require.NoError(t, conn.WriteJSON(WebSocketAnalyzeRequest{Text: "hola mundo"}))
		var resp WebSocketAnalyzeResponse
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, "completed", resp.Status)
	}
	assert.Equal(t, 3, engines.calls)
}
