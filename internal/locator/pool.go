package locator

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/star/skyfix/internal/transform"
)

// candidates returns the grid of one level around center, longitude-major,
// skipping rows beyond the pole limit. Longitudes are normalized.
func candidates(cfg Config, center Coordinate, step float64) []Coordinate {
	out := make([]Coordinate, 0, cfg.gridSize())
	for i := cfg.LonStepMin; i < cfg.LonStepMax; i++ {
		lon := transform.NormalizeLongitude(center.Lon + float64(i)*step)
		for j := cfg.LatStepMin; j <= cfg.LatStepMax; j++ {
			lat := center.Lat + float64(j)*step
			if math.Abs(lat) > cfg.PoleLimit {
				continue
			}
			out = append(out, Coordinate{Lat: lat, Lon: lon})
		}
	}
	return out
}

// scoreJob is a unit of work for the worker pool.
type scoreJob struct {
	index int
	coord Coordinate
}

// scored is one candidate's outcome. A failed forward model leaves cost at
// +Inf and sets err.
type scored struct {
	index      int
	coord      Coordinate
	cost       float64
	prediction Prediction
	err        error
}

// workerPool scores candidates on a fixed number of goroutines.
type workerPool struct {
	workers int
	logger  *slog.Logger
}

func newWorkerPool(workers int, logger *slog.Logger) *workerPool {
	return &workerPool{workers: workers, logger: logger}
}

// scoreBatch scores every coordinate against m. The returned slice is in
// input order. complete is false when ctx ended before all candidates were
// scored; the partial slice must then be discarded.
func (wp *workerPool) scoreBatch(ctx context.Context, fm predictor, m Measurement, cfg Config, coords []Coordinate) (out []scored, failures int, complete bool) {
	if len(coords) == 0 {
		return nil, 0, true
	}

	jobs := make(chan scoreJob, wp.workers*2)
	results := make(chan scored, wp.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				result := scoreSingle(fm, m, cfg, job)
				select {
				case results <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, c := range coords {
			select {
			case jobs <- scoreJob{index: i, coord: c}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out = make([]scored, len(coords))
	received := 0
	for result := range results {
		out[result.index] = result
		received++
		if result.err != nil {
			failures++
			wp.logger.Debug("candidate failed",
				"lat", result.coord.Lat,
				"lon", result.coord.Lon,
				"error", result.err,
			)
		}
	}

	if received < len(coords) || ctx.Err() != nil {
		return nil, failures, false
	}
	return out, failures, true
}

// scoreSingle never panics into the pool: any forward-model failure becomes
// an infinite error for that candidate.
func scoreSingle(fm predictor, m Measurement, cfg Config, job scoreJob) (s scored) {
	s = scored{index: job.index, coord: job.coord, cost: math.Inf(1)}
	defer func() {
		if r := recover(); r != nil {
			s.cost = math.Inf(1)
			s.err = panicError{value: r}
		}
	}()

	p, err := fm.predict(job.coord)
	if err != nil {
		s.err = err
		return s
	}
	s.prediction = p
	s.cost = score(m, p, cfg.Weights, cfg.Ranges)
	return s
}

// best returns the lowest finite cost in order; ties keep the earlier
// candidate. ok is false when every candidate failed.
func best(batch []scored) (scored, bool) {
	var (
		top scored
		ok  bool
	)
	for _, s := range batch {
		if math.IsInf(s.cost, 1) {
			continue
		}
		if !ok || s.cost < top.cost {
			top, ok = s, true
		}
	}
	return top, ok
}
