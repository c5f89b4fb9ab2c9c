package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/star/skyfix/internal/auth"
	"github.com/star/skyfix/internal/capture"
	"github.com/star/skyfix/internal/health"
	"github.com/star/skyfix/internal/locator"
	"github.com/star/skyfix/internal/metrics"
	"github.com/star/skyfix/internal/stream"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server. archive may be nil, in which
// case estimates are not stored and the capture routes report 503.
func NewServer(addr string, logger *slog.Logger, authCfg auth.Config, est *locator.Estimator, archive *capture.Archive, streamHandler *stream.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           newHandler(logger, authCfg, est, archive, streamHandler),
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

func newHandler(logger *slog.Logger, authCfg auth.Config, est *locator.Estimator, archive *capture.Archive, streamHandler *stream.Handler) http.Handler {
	mux := http.NewServeMux()

	var checks []health.Check
	if archive != nil {
		checks = append(checks, health.Check{Name: "capture_archive", Probe: archive.Check})
	}

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(checks...))
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/v1/estimate", estimateHandler(logger, est, archive, time.Now))
	mux.HandleFunc("GET /api/v1/ephemeris", ephemerisHandler(time.Now))
	mux.HandleFunc("GET /api/v1/field", fieldHandler(time.Now))
	mux.HandleFunc("GET /api/v1/distance", distanceHandler())
	mux.HandleFunc("GET /api/v1/gravity", gravityHandler())
	mux.HandleFunc("GET /api/v1/moon/phase", moonPhaseHandler(time.Now))
	mux.HandleFunc("GET /api/v1/models/geomagnetic", modelsHandler(time.Now))
	mux.HandleFunc("GET /api/v1/passes", passesHandler(time.Now))
	mux.HandleFunc("GET /api/v1/captures", capturesListHandler(archive))
	mux.HandleFunc("GET /api/v1/captures/{id}", captureGetHandler(archive))
	if streamHandler != nil {
		mux.HandleFunc("GET /api/v1/stream/estimate", streamHandler.HandleEstimate)
	}

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)
	return handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working behind the logger.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}
