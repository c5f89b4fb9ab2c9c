// Package stream serves estimate progress as Server-Sent Events. A client
// opens GET /api/v1/stream/estimate with the sighting in the query string and
// receives one event per completed resolution level followed by the result:
//
//	event: level
//	data: {"type":"level","level":1,"step_deg":20,...}
//
//	event: result
//	data: {"type":"result","id":"...","result":{...}}
//
// A failed estimate ends with an "error" event instead. Keep-alive comments
// (:\n\n) are sent every KeepaliveInterval while the search runs.
package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/star/skyfix/internal/httputil"
	"github.com/star/skyfix/internal/locator"
	"github.com/star/skyfix/internal/metrics"
)

// Config holds streaming configuration loaded from environment variables.
type Config struct {
	MaxConcurrentPerIP int           // Max concurrent streams per IP (default: 4).
	MaxTotal           int           // Max concurrent streams overall (default: 1000).
	KeepaliveInterval  time.Duration // Keep-alive ping interval (default: 15s).
	TrustProxy         bool          // Take the client IP from X-Forwarded-For.
}

// DefaultConfig returns the streaming defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentPerIP: 4,
		MaxTotal:           1000,
		KeepaliveInterval:  15 * time.Second,
	}
}

// Handler manages SSE estimate streams.
type Handler struct {
	estimator *locator.Estimator
	config    Config
	limiter   *streamLimiter
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates a streaming handler backed by estimator.
func NewHandler(estimator *locator.Estimator, config Config, logger *slog.Logger) *Handler {
	if config.KeepaliveInterval <= 0 {
		config.KeepaliveInterval = DefaultConfig().KeepaliveInterval
	}
	return &Handler{
		estimator: estimator,
		config:    config,
		limiter:   newStreamLimiter(config.MaxConcurrentPerIP, config.MaxTotal),
		logger:    logger,
		now:       time.Now,
	}
}

type outcome struct {
	result locator.Result
	err    error
}

// HandleEstimate runs one estimate and streams its progress.
// GET /api/v1/stream/estimate?target=sun&time=...&azimuth=..&elevation=..&inclination=..&intensity=..
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	m, err := MeasurementFromQuery(r, h.now())
	if err == nil {
		err = m.Validate()
	}
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ip := httputil.ClientIP(r, h.config.TrustProxy)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("rate_limit")
		h.logger.Warn("stream rate limit exceeded",
			"remote_ip", ip,
			"current_count", h.limiter.count(ip),
		)
		w.Header().Set("Retry-After", "30")
		httputil.WriteError(w, http.StatusTooManyRequests, "too many concurrent streams")
		return
	}

	metrics.IncStreamConnections("connect")
	metrics.IncStreamsActive()

	id := uuid.NewString()
	startTime := time.Now()
	h.logger.Info("stream connected",
		"remote_ip", ip,
		"estimate_id", id,
		"target", m.Target.String(),
	)

	defer func() {
		h.limiter.release(ip)
		metrics.IncStreamConnections("disconnect")
		metrics.DecStreamsActive()
		h.logger.Info("stream disconnected",
			"remote_ip", ip,
			"estimate_id", id,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", "error", err)
	}

	c := &client{
		w:       w,
		flusher: flusher,
		rc:      rc,
		ip:      ip,
		logger:  h.logger,
	}

	// Jittered retry (3-7s) spreads out reconnects after a restart.
	retryMs := 3000 + rand.Intn(4000)
	fmt.Fprintf(w, "retry: %d\n\n", retryMs)
	flusher.Flush()

	ctx := r.Context()
	levels := make(chan locator.LevelStats, len(h.estimator.Config().Levels()))
	done := make(chan outcome, 1)
	go func() {
		res, err := h.estimator.EstimateWithProgress(ctx, m, func(s locator.LevelStats) {
			levels <- s
		})
		done <- outcome{result: res, err: err}
	}()

	keepaliveTicker := time.NewTicker(h.config.KeepaliveInterval)
	defer keepaliveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case s := <-levels:
			if !h.send(c, "level", levelMessage{Type: "level", LevelStats: s}) {
				return
			}
			keepaliveTicker.Reset(h.config.KeepaliveInterval)

		case o := <-done:
			for drained := false; !drained; {
				select {
				case s := <-levels:
					if !h.send(c, "level", levelMessage{Type: "level", LevelStats: s}) {
						return
					}
				default:
					drained = true
				}
			}
			if o.err != nil {
				h.logger.Info("stream estimate failed", "estimate_id", id, "error", o.err)
				h.send(c, "error", errorMessage{Type: "error", ID: id, Error: o.err.Error(), NoEstimate: errors.Is(o.err, locator.ErrNoEstimate)})
				return
			}
			h.send(c, "result", resultMessage{Type: "result", ID: id, Result: o.result})
			return

		case <-keepaliveTicker.C:
			if err := c.sendKeepalive(); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream keepalive error", "remote_ip", ip, "error", err)
				return
			}
		}
	}
}

func (h *Handler) send(c *client, event string, v any) bool {
	if err := c.sendEvent(event, v); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error", "remote_ip", c.ip, "event", event, "error", err)
		return false
	}
	return true
}

// SSE message payload types.

type levelMessage struct {
	Type string `json:"type"`
	locator.LevelStats
}

type resultMessage struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Result locator.Result `json:"result"`
}

type errorMessage struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Error      string `json:"error"`
	NoEstimate bool   `json:"no_estimate"`
}
