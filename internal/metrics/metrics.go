package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyfix_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyfix_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	estimatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyfix_estimates_total",
			Help: "Position estimates by target and outcome (ok, partial, failed).",
		},
		[]string{"target", "outcome"},
	)

	estimateDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyfix_estimate_duration_seconds",
			Help:    "Wall time of one position estimate.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"target"},
	)

	forwardEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyfix_forward_evaluations_total",
			Help: "Candidate coordinates scored by the forward model.",
		},
		[]string{"target"},
	)

	candidateFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyfix_candidate_failures_total",
			Help: "Candidates whose forward model failed and were scored as infinite error.",
		},
		[]string{"target"},
	)

	coverageGapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skyfix_wmm_coverage_gaps_total",
			Help: "Estimates evaluated with a magnetic model outside its validity window.",
		},
	)

	streamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skyfix_streams_active",
			Help: "Currently connected SSE clients.",
		},
	)

	streamConnectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyfix_stream_connections_total",
			Help: "SSE connection events (connect, disconnect).",
		},
		[]string{"event"},
	)

	streamMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skyfix_stream_messages_total",
			Help: "SSE messages sent.",
		},
	)

	streamBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skyfix_stream_bytes_total",
			Help: "Bytes written to SSE clients.",
		},
	)

	streamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyfix_stream_errors_total",
			Help: "SSE errors by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(estimatesTotal)
	prometheus.MustRegister(estimateDurationSeconds)
	prometheus.MustRegister(forwardEvaluationsTotal)
	prometheus.MustRegister(candidateFailuresTotal)
	prometheus.MustRegister(coverageGapsTotal)
	prometheus.MustRegister(streamsActive)
	prometheus.MustRegister(streamConnectionsTotal)
	prometheus.MustRegister(streamMessagesTotal)
	prometheus.MustRegister(streamBytesTotal)
	prometheus.MustRegister(streamErrorsTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Estimate outcomes.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// RecordEstimate records one finished estimate.
func RecordEstimate(target, outcome string, d time.Duration, evaluations, failures int, coverageGap bool) {
	estimatesTotal.WithLabelValues(target, outcome).Inc()
	estimateDurationSeconds.WithLabelValues(target).Observe(d.Seconds())
	forwardEvaluationsTotal.WithLabelValues(target).Add(float64(evaluations))
	if failures > 0 {
		candidateFailuresTotal.WithLabelValues(target).Add(float64(failures))
	}
	if coverageGap {
		coverageGapsTotal.Inc()
	}
}

// IncStreamsActive increments the active SSE stream gauge.
func IncStreamsActive() { streamsActive.Inc() }

// DecStreamsActive decrements the active SSE stream gauge.
func DecStreamsActive() { streamsActive.Dec() }

// IncStreamConnections counts a connect or disconnect event.
func IncStreamConnections(event string) {
	streamConnectionsTotal.WithLabelValues(event).Inc()
}

// IncStreamMessages counts one SSE message.
func IncStreamMessages() { streamMessagesTotal.Inc() }

// AddStreamBytes adds n written bytes.
func AddStreamBytes(n int64) { streamBytesTotal.Add(float64(n)) }

// IncStreamErrors counts an SSE error by reason.
func IncStreamErrors(reason string) {
	streamErrorsTotal.WithLabelValues(reason).Inc()
}

// knownRoutes are the exact paths served; anything else is labeled "other"
// so scanners cannot blow up label cardinality.
var knownRoutes = map[string]bool{
	"/healthz":                   true,
	"/readyz":                    true,
	"/metrics":                   true,
	"/api/v1/estimate":           true,
	"/api/v1/ephemeris":          true,
	"/api/v1/field":              true,
	"/api/v1/distance":           true,
	"/api/v1/gravity":            true,
	"/api/v1/moon/phase":         true,
	"/api/v1/models/geomagnetic": true,
	"/api/v1/passes":             true,
	"/api/v1/captures":           true,
	"/api/v1/stream/estimate":    true,
}

const capturesPrefix = "/api/v1/captures/"

func normalizeRoute(path string) string {
	if len(path) > len(capturesPrefix) && path[:len(capturesPrefix)] == capturesPrefix {
		return "/api/v1/captures/{id}"
	}
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so SSE handlers keep streaming.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
