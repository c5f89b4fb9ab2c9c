// Package locator estimates an observer's position from one sighting of the
// Sun or the Moon and a magnetometer reading.
//
// The estimator runs a coarse-to-fine grid search. Each level scores a fixed
// grid of candidates around the current best position with a forward model
// (ephemeris plus World Magnetic Model), then shrinks the grid step. The
// best cost never increases from one level to the next.
package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/star/skyfix/internal/metrics"
)

const tracerName = "github.com/star/skyfix/internal/locator"

var (
	// ErrInvalidInput is returned for measurements that cannot be scored.
	ErrInvalidInput = errors.New("invalid measurement")
	// ErrInvalidConfig is returned by New for unusable tunables.
	ErrInvalidConfig = errors.New("invalid locator config")
	// ErrNoEstimate is returned when no candidate ever scored a finite cost,
	// or when the search was cancelled before its first level finished.
	ErrNoEstimate = errors.New("no position estimate")
)

type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("forward model panic: %v", p.value)
}

// LevelStats summarises one resolution level. Level counts from 1.
type LevelStats struct {
	Level      int        `json:"level"`
	StepDeg    float64    `json:"step_deg"`
	Candidates int        `json:"candidates"`
	Failures   int        `json:"failures"`
	Best       Coordinate `json:"best"`
	Error      float64    `json:"error"`
	DurationMS float64    `json:"duration_ms"`
}

// Result is the outcome of one estimate.
type Result struct {
	Coordinate Coordinate `json:"coordinate"`
	// Error is the cost at Coordinate; 0 means every reading is matched.
	Error  float64      `json:"error"`
	Levels []LevelStats `json:"levels"`

	Evaluations int `json:"evaluations"`
	Failures    int `json:"failures"`

	// Partial is set when the search stopped before its finest level,
	// through cancellation or a level where every candidate failed.
	Partial bool `json:"partial"`

	MagneticEpoch int  `json:"magnetic_epoch"`
	CoverageGap   bool `json:"coverage_gap"`

	Predicted  Prediction `json:"predicted"`
	DurationMS float64    `json:"duration_ms"`
}

// ProgressFunc is called after each completed level.
type ProgressFunc func(LevelStats)

// Estimator runs position estimates. It holds no per-call state and is safe
// for concurrent use.
type Estimator struct {
	cfg    Config
	pool   *workerPool
	logger *slog.Logger
	tracer trace.Tracer

	// wrap, when set, decorates the forward model of every search.
	wrap func(predictor) predictor
}

// New returns an estimator for cfg.
func New(cfg Config, logger *slog.Logger) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logger.With("component", "locator")
	return &Estimator{
		cfg:    cfg,
		pool:   newWorkerPool(cfg.Workers, logger),
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Config returns the estimator's tunables.
func (e *Estimator) Config() Config { return e.cfg }

// Estimate searches for the position that best explains m.
func (e *Estimator) Estimate(ctx context.Context, m Measurement) (Result, error) {
	return e.EstimateWithProgress(ctx, m, nil)
}

// EstimateWithProgress is Estimate with a callback after every level.
//
// Cancelling ctx stops the search at the next level boundary. If at least
// one level finished, the best position so far is returned with Partial set
// and a nil error; otherwise the error wraps both ErrNoEstimate and ctx.Err().
func (e *Estimator) EstimateWithProgress(ctx context.Context, m Measurement, progress ProgressFunc) (Result, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "locator.Estimate",
		trace.WithAttributes(
			attribute.String("target", m.Target.String()),
			attribute.String("time", m.Time.UTC().Format(time.RFC3339)),
		),
	)
	defer span.End()

	res, err := e.search(ctx, m, progress)
	res.DurationMS = float64(time.Since(start).Microseconds()) / 1000

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Warn("estimate failed",
			"target", m.Target.String(),
			"evaluations", res.Evaluations,
			"error", err,
		)
	case res.Partial:
		outcome = metrics.OutcomePartial
	}
	metrics.RecordEstimate(m.Target.String(), outcome, time.Since(start), res.Evaluations, res.Failures, res.CoverageGap)

	if err != nil {
		return res, err
	}

	span.SetAttributes(
		attribute.Float64("lat", res.Coordinate.Lat),
		attribute.Float64("lon", res.Coordinate.Lon),
		attribute.Float64("error", res.Error),
		attribute.Int("evaluations", res.Evaluations),
		attribute.Bool("partial", res.Partial),
	)
	e.logger.Info("estimate complete",
		"target", m.Target.String(),
		"lat", res.Coordinate.Lat,
		"lon", res.Coordinate.Lon,
		"error", res.Error,
		"levels", len(res.Levels),
		"evaluations", res.Evaluations,
		"failures", res.Failures,
		"partial", res.Partial,
		"coverage_gap", res.CoverageGap,
		"duration_ms", res.DurationMS,
	)
	return res, nil
}

func (e *Estimator) search(ctx context.Context, m Measurement, progress ProgressFunc) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	fm, err := newForwardModel(m)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrNoEstimate, err)
	}

	var model predictor = fm
	if e.wrap != nil {
		model = e.wrap(fm)
	}

	res := Result{
		Error:         math.Inf(1),
		MagneticEpoch: fm.field.Epoch(),
		CoverageGap:   fm.field.CoverageGap(),
	}
	var (
		center  Coordinate
		lastErr error
	)

	for i, step := range e.cfg.Levels() {
		level := i + 1
		if err := ctx.Err(); err != nil {
			return e.stopped(res, err)
		}

		levelStart := time.Now()
		coords := candidates(e.cfg, center, step)

		lctx, lspan := e.tracer.Start(ctx, "locator.level",
			trace.WithAttributes(
				attribute.Int("level", level),
				attribute.Float64("step_deg", step),
				attribute.Int("candidates", len(coords)),
			),
		)
		batch, failures, complete := e.pool.scoreBatch(lctx, model, m, e.cfg, coords)
		lspan.SetAttributes(attribute.Int("failures", failures))
		lspan.End()

		if !complete {
			return e.stopped(res, ctx.Err())
		}
		res.Evaluations += len(coords)
		res.Failures += failures

		top, ok := best(batch)
		if !ok {
			lastErr = firstFailure(batch)
			e.logger.Warn("every candidate failed, keeping previous level",
				"level", level,
				"step_deg", step,
				"error", lastErr,
			)
			res.Partial = true
			break
		}
		if top.cost < res.Error {
			res.Error = top.cost
			res.Coordinate = top.coord
			res.Predicted = top.prediction
		}
		center = res.Coordinate

		stats := LevelStats{
			Level:      level,
			StepDeg:    step,
			Candidates: len(coords),
			Failures:   failures,
			Best:       res.Coordinate,
			Error:      res.Error,
			DurationMS: float64(time.Since(levelStart).Microseconds()) / 1000,
		}
		res.Levels = append(res.Levels, stats)
		e.logger.Debug("level complete",
			"level", level,
			"step_deg", step,
			"lat", stats.Best.Lat,
			"lon", stats.Best.Lon,
			"error", stats.Error,
		)
		if progress != nil {
			progress(stats)
		}
	}

	if len(res.Levels) == 0 {
		if lastErr != nil {
			return res, fmt.Errorf("%w: %w", ErrNoEstimate, lastErr)
		}
		return res, ErrNoEstimate
	}
	return res, nil
}

// stopped handles cancellation at a level boundary.
func (e *Estimator) stopped(res Result, cause error) (Result, error) {
	if len(res.Levels) == 0 {
		return res, fmt.Errorf("%w: %w", ErrNoEstimate, cause)
	}
	res.Partial = true
	e.logger.Info("estimate cancelled, returning best so far",
		"levels", len(res.Levels),
		"cause", cause,
	)
	return res, nil
}

func firstFailure(batch []scored) error {
	for _, s := range batch {
		if s.err != nil {
			return s.err
		}
	}
	return nil
}
