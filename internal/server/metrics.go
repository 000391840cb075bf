package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeswitch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codeswitch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Analysis metrics
	analyzeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeswitch_analyze_requests_total",
			Help: "Total number of analysis requests",
		},
		[]string{"mode", "status"}, // mode: fast, balanced, accurate
	)

	analyzeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codeswitch_analyze_duration_seconds",
			Help:    "Analysis duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	analyzeTextLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codeswitch_analyze_text_length",
			Help:    "Length of analyzed text in bytes",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	switchPointsDetected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codeswitch_switch_points_detected",
			Help:    "Number of language switch points per analysis",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50},
		},
	)

	// Rate limiting metrics
	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeswitch_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"type"}, // type: minute, hour, requests, text
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codeswitch_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeswitch_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
