package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeboard-app/codeswitch/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the analysis API",
	Long: `Start an HTTP server that provides REST API endpoints for
code-switching analysis.

The server provides the following endpoints:
  POST /analyze      - Analyze text for language switches
  GET  /health       - Health check endpoint
  GET  /languages    - List supported languages
  GET  /cache/stats  - Result cache statistics
  POST /cache/clear  - Clear the result cache
  GET  /ws/analyze   - WebSocket streaming analysis
  GET  /metrics      - Prometheus metrics

Examples:
  codeswitch serve
  codeswitch serve --port 8080
  codeswitch serve --host 0.0.0.0 --port 3000 --remote-endpoint http://detector:5000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Centralized config already merges CLI flags, config file, env
		// vars, and defaults; explicit flags still win below.
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		corsOrigin := cfg.Server.CORSOrigin
		if cmd.Flags().Changed("cors-origin") {
			corsOrigin, _ = cmd.Flags().GetString("cors-origin")
		}

		maxTextLen := cfg.Server.MaxTextLen
		if cmd.Flags().Changed("max-text-len") {
			maxTextLen, _ = cmd.Flags().GetInt("max-text-len")
		}

		timeout := cfg.Server.TimeoutSec
		if cmd.Flags().Changed("timeout") {
			timeout, _ = cmd.Flags().GetInt("timeout")
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if cmd.Flags().Changed("shutdown-timeout") {
			shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
		}

		engineOpts := cfg.ToEngineOptions()
		if cmd.Flags().Changed("remote-endpoint") {
			engineOpts.RemoteEndpoint, _ = cmd.Flags().GetString("remote-endpoint")
		}
		if cmd.Flags().Changed("low-accuracy") {
			engineOpts.LowAccuracyMode, _ = cmd.Flags().GetBool("low-accuracy")
		}

		// Rate limiting configuration
		rateLimitEnabled, _ := cmd.Flags().GetBool("rate-limit-enabled")
		requestsPerMinute, _ := cmd.Flags().GetInt("requests-per-minute")
		requestsPerHour, _ := cmd.Flags().GetInt("requests-per-hour")
		maxRequestsPerDay, _ := cmd.Flags().GetInt("max-requests-per-day")
		maxTextPerDay, _ := cmd.Flags().GetInt64("max-text-per-day")

		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		serverConfig := server.Config{
			Host:        host,
			Port:        port,
			CORSOrigin:  corsOrigin,
			MaxTextLen:  maxTextLen,
			TimeoutSec:  timeout,
			DefaultMode: cfg.Engine.DefaultMode,
			Cache:       cfg.NewCache(),
			Engines:     engineOpts,
			RateLimit: server.RateLimitConfig{
				Enabled:           rateLimitEnabled,
				RequestsPerMinute: requestsPerMinute,
				RequestsPerHour:   requestsPerHour,
				MaxRequestsPerDay: maxRequestsPerDay,
				MaxTextPerDay:     maxTextPerDay,
			},
		}

		analysisServer, err := server.NewServer(serverConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		mux := http.NewServeMux()
		analysisServer.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(timeout) * time.Second,
			WriteTimeout:      time.Duration(timeout) * time.Second,
		}

		go func() {
			slog.Info("Starting analysis server", "host", host, "port", port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
		defer shutdownCancel()

		slog.Info("Shutting down HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server shutdown completed")
		}

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("max-text-len", 100000, "maximum text length in bytes")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	// Engine customization flags
	serveCmd.Flags().String("remote-endpoint", "", "URL of an external detection service to try first")
	serveCmd.Flags().Bool("low-accuracy", false, "trade accuracy for lower memory usage")
	// Rate limiting flags
	serveCmd.Flags().Bool("rate-limit-enabled", false, "enable rate limiting")
	serveCmd.Flags().Int("requests-per-minute", 60, "maximum requests per minute per client")
	serveCmd.Flags().Int("requests-per-hour", 1000, "maximum requests per hour per client")
	serveCmd.Flags().Int("max-requests-per-day", 5000, "maximum requests per day per client")
	serveCmd.Flags().Int64("max-text-per-day", 10*1024*1024, "maximum text analyzed per day per client (bytes)")
}
