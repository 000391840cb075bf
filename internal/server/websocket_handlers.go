package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codeboard-app/codeswitch/internal/engine"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketAnalyzeRequest is one analysis request frame.
type WebSocketAnalyzeRequest struct {
	Text          string         `json:"text"`
	UserLanguages []string       `json:"userLanguages"`
	Options       AnalyzeOptions `json:"options"`
	RequestID     string         `json:"requestId,omitempty"`
}

// WebSocketAnalyzeResponse is one response frame.
type WebSocketAnalyzeResponse struct {
	Type      string      `json:"type"`
	Status    string      `json:"status"` // "completed" or "error"
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// analyzeWebSocketHandler handles WebSocket connections for streaming
// analysis: one JSON request frame in, one result frame out, connection
// kept alive between messages.
func (s *Server) analyzeWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage processes one analysis request frame.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketAnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err), "")
		return
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	if strings.TrimSpace(req.Text) == "" {
		s.sendWebSocketError(conn, "invalid_request", "No text provided", requestID)
		return
	}
	if len(req.Text) > s.maxTextLen {
		s.sendWebSocketError(conn, "invalid_request", "Text too long", requestID)
		return
	}

	mode := req.Options.PerformanceMode
	if mode == "" {
		mode = s.defaultMode
	}
	switch mode {
	case engine.ModeFast, engine.ModeBalanced, engine.ModeAccurate:
	default:
		s.sendWebSocketError(conn, "invalid_request", "Invalid performance mode: "+mode, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.timeoutSec)*time.Second)
	defer cancel()

	start := time.Now()
	res := s.analyze(ctx, req.Text, req.UserLanguages, mode, req.Options.useCache())

	analyzeRequestsTotal.WithLabelValues(mode, "success").Inc()
	analyzeDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	analyzeTextLength.Observe(float64(len(req.Text)))
	switchPointsDetected.Observe(float64(len(res.SwitchPoints)))

	s.sendWebSocketResponse(conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "completed",
		Result:    res,
		RequestID: requestID,
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketAnalyzeResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message, requestID string) {
	response := WebSocketAnalyzeResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
		RequestID: requestID,
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket error response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket error message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
