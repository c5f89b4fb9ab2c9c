package locator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/star/skyfix/internal/atmosphere"
	"github.com/star/skyfix/internal/ephemeris"
	"github.com/star/skyfix/internal/geomag"
)

var budapest = Coordinate{Lat: 47.498, Lon: 19.041}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testEstimator(t *testing.T, cfg Config) *Estimator {
	t.Helper()
	e, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

// solarMeasurement computes a perfect reading at c straight from the
// ephemeris and the field model.
func solarMeasurement(t *testing.T, when time.Time, c Coordinate) Measurement {
	t.Helper()
	h, err := ephemeris.SolarPosition(when.UnixMilli(), c.Lat, c.Lon)
	if err != nil {
		t.Fatalf("SolarPosition() error = %v", err)
	}
	f, err := geomag.EvaluateAt(when, c.Lat, c.Lon, 0)
	if err != nil {
		t.Fatalf("EvaluateAt() error = %v", err)
	}
	return Measurement{
		Time:               when,
		Target:             ephemeris.Sun,
		AzimuthMagneticDeg: ephemeris.ApparentToMagneticAzimuth(h.AzimuthDeg, f.DeclinationDeg),
		ElevationDeg:       h.ElevationDeg,
		InclinationDeg:     f.InclinationDeg,
		IntensityMicroT:    f.TotalStrength / 1000,
	}
}

func TestEstimateRecoversBudapest(t *testing.T) {
	sunTime := time.Date(2016, 6, 21, 8, 0, 0, 0, time.UTC)
	moonTime := time.Date(2016, 6, 20, 22, 0, 0, 0, time.UTC)

	moon, err := Synthesize(ephemeris.Moon, moonTime, budapest)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if moon.ElevationDeg < 5 {
		t.Fatalf("test setup: Moon at %.2f° is not well above the horizon", moon.ElevationDeg)
	}

	tests := []struct {
		name string
		m    Measurement
	}{
		{"Sun", solarMeasurement(t, sunTime, budapest)},
		{"Moon", moon},
	}

	e := testEstimator(t, DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Estimate(context.Background(), tt.m)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if math.Abs(res.Coordinate.Lat-budapest.Lat) > 0.5 || math.Abs(res.Coordinate.Lon-budapest.Lon) > 0.5 {
				t.Errorf("estimate = %+v, want within 0.5° of %+v", res.Coordinate, budapest)
			}
			if res.Error > 1e-4 {
				t.Errorf("error = %g, want ≈ 0", res.Error)
			}
			if res.Partial {
				t.Error("complete search reported as partial")
			}
			if len(res.Levels) != 4 {
				t.Errorf("levels = %d, want 4", len(res.Levels))
			}
			if res.Evaluations != 4*162 {
				t.Errorf("evaluations = %d, want %d", res.Evaluations, 4*162)
			}
			if res.Failures != 0 {
				t.Errorf("failures = %d, want 0", res.Failures)
			}
			if res.MagneticEpoch != 2015 || res.CoverageGap {
				t.Errorf("magnetic model = %d (gap %v), want WMM2015 in coverage", res.MagneticEpoch, res.CoverageGap)
			}

			d, err := res.Coordinate.DistanceTo(budapest)
			if err != nil {
				t.Fatalf("DistanceTo() error = %v", err)
			}
			if d > 40000 {
				t.Errorf("distance to reference = %.0f m, want under 40 km", d)
			}
		})
	}
}

func TestEstimateErrorNonIncreasing(t *testing.T) {
	m := solarMeasurement(t, time.Date(2016, 6, 21, 8, 0, 0, 0, time.UTC), budapest)
	e := testEstimator(t, DefaultConfig())

	var seen []LevelStats
	res, err := e.EstimateWithProgress(context.Background(), m, func(s LevelStats) {
		seen = append(seen, s)
	})
	if err != nil {
		t.Fatalf("EstimateWithProgress() error = %v", err)
	}
	if len(seen) != len(res.Levels) {
		t.Fatalf("progress called %d times, want %d", len(seen), len(res.Levels))
	}
	for i, s := range seen {
		if s.Level != i+1 {
			t.Errorf("progress %d reports level %d, want %d", i, s.Level, i+1)
		}
	}
	for i := 1; i < len(seen); i++ {
		if seen[i].Error > seen[i-1].Error {
			t.Errorf("level %d error %g > level %d error %g", i, seen[i].Error, i-1, seen[i-1].Error)
		}
		if seen[i].StepDeg >= seen[i-1].StepDeg {
			t.Errorf("level %d step %g did not shrink", i, seen[i].StepDeg)
		}
	}
	if last := seen[len(seen)-1]; last.Error != res.Error || last.Best != res.Coordinate {
		t.Errorf("final level %+v disagrees with result %+v", last, res.Coordinate)
	}
}

func TestEstimateDeterministicAcrossWorkers(t *testing.T) {
	m := solarMeasurement(t, time.Date(2016, 6, 21, 8, 0, 0, 0, time.UTC), budapest)

	var results []Result
	for _, workers := range []int{1, 3, 16} {
		cfg := DefaultConfig()
		cfg.Workers = workers
		res, err := testEstimator(t, cfg).Estimate(context.Background(), m)
		if err != nil {
			t.Fatalf("workers=%d: Estimate() error = %v", workers, err)
		}
		results = append(results, res)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Coordinate != results[0].Coordinate || results[i].Error != results[0].Error {
			t.Errorf("run %d = %+v (%g), want %+v (%g)", i,
				results[i].Coordinate, results[i].Error, results[0].Coordinate, results[0].Error)
		}
	}
}

func TestEstimateCancelledBeforeStart(t *testing.T) {
	m := solarMeasurement(t, time.Date(2016, 6, 21, 8, 0, 0, 0, time.UTC), budapest)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testEstimator(t, DefaultConfig()).Estimate(ctx, m)
	if !errors.Is(err, ErrNoEstimate) {
		t.Errorf("error = %v, want ErrNoEstimate", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want it to wrap context.Canceled", err)
	}
}

func TestEstimateCancelledBetweenLevels(t *testing.T) {
	m := solarMeasurement(t, time.Date(2016, 6, 21, 8, 0, 0, 0, time.UTC), budapest)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := testEstimator(t, DefaultConfig()).EstimateWithProgress(ctx, m, func(LevelStats) {
		cancel()
	})
	if err != nil {
		t.Fatalf("Estimate() error = %v, want best-so-far", err)
	}
	if !res.Partial {
		t.Error("cancelled search not marked partial")
	}
	if len(res.Levels) != 1 {
		t.Errorf("levels = %d, want 1", len(res.Levels))
	}
	if math.IsInf(res.Error, 0) {
		t.Error("partial result has no finite error")
	}
}

func TestEstimateLunarFailure(t *testing.T) {
	m := Measurement{
		Time:               time.Date(9000, 1, 1, 0, 0, 0, 0, time.UTC),
		Target:             ephemeris.Moon,
		AzimuthMagneticDeg: 120,
		ElevationDeg:       30,
		InclinationDeg:     60,
		IntensityMicroT:    48,
	}
	_, err := testEstimator(t, DefaultConfig()).Estimate(context.Background(), m)
	if !errors.Is(err, ErrNoEstimate) {
		t.Errorf("error = %v, want ErrNoEstimate", err)
	}
	if !errors.Is(err, ephemeris.ErrComputationFailure) {
		t.Errorf("error = %v, want it to wrap ErrComputationFailure", err)
	}
}

// failingAfter passes the first ok predictions through and fails the rest.
type failingAfter struct {
	next  predictor
	ok    int64
	calls atomic.Int64
}

var errSensorModel = errors.New("field model unavailable")

func (f *failingAfter) predict(c Coordinate) (Prediction, error) {
	if f.calls.Add(1) > f.ok {
		return Prediction{}, errSensorModel
	}
	return f.next.predict(c)
}

func TestEstimateLevelFailure(t *testing.T) {
	m := solarMeasurement(t, time.Date(2016, 6, 21, 8, 0, 0, 0, time.UTC), budapest)
	perLevel := int64(DefaultConfig().gridSize())

	t.Run("later level keeps previous center", func(t *testing.T) {
		full, err := testEstimator(t, DefaultConfig()).Estimate(context.Background(), m)
		if err != nil {
			t.Fatal(err)
		}

		e := testEstimator(t, DefaultConfig())
		e.wrap = func(p predictor) predictor { return &failingAfter{next: p, ok: perLevel} }

		var progressed int
		res, err := e.EstimateWithProgress(context.Background(), m, func(LevelStats) { progressed++ })
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		if !res.Partial {
			t.Error("result after a failed level should be partial")
		}
		if len(res.Levels) != 1 || progressed != 1 {
			t.Fatalf("levels = %d, progress calls = %d, want 1", len(res.Levels), progressed)
		}
		if res.Coordinate != res.Levels[0].Best || res.Error != res.Levels[0].Error {
			t.Errorf("result %+v does not match first level %+v", res.Coordinate, res.Levels[0])
		}
		if res.Evaluations != int(2*perLevel) || res.Failures != int(perLevel) {
			t.Errorf("evaluations = %d, failures = %d, want %d and %d", res.Evaluations, res.Failures, 2*perLevel, perLevel)
		}
		if res.Error < full.Error {
			t.Errorf("coarse error %g below full search error %g", res.Error, full.Error)
		}
	})

	t.Run("first level fails", func(t *testing.T) {
		e := testEstimator(t, DefaultConfig())
		e.wrap = func(p predictor) predictor { return &failingAfter{next: p} }

		_, err := e.Estimate(context.Background(), m)
		if !errors.Is(err, ErrNoEstimate) {
			t.Errorf("error = %v, want ErrNoEstimate", err)
		}
		if !errors.Is(err, errSensorModel) {
			t.Errorf("error = %v, want it to wrap the candidate failure", err)
		}
	})
}

func TestEstimateInvalidInput(t *testing.T) {
	valid := Measurement{
		Time:               time.Date(2016, 6, 21, 8, 0, 0, 0, time.UTC),
		Target:             ephemeris.Sun,
		AzimuthMagneticDeg: 110,
		ElevationDeg:       49,
		InclinationDeg:     64,
		IntensityMicroT:    48.6,
	}
	nan := math.NaN()

	tests := []struct {
		name   string
		mutate func(*Measurement)
	}{
		{"zero time", func(m *Measurement) { m.Time = time.Time{} }},
		{"unknown target", func(m *Measurement) { m.Target = ephemeris.Target(9) }},
		{"NaN azimuth", func(m *Measurement) { m.AzimuthMagneticDeg = nan }},
		{"elevation above zenith", func(m *Measurement) { m.ElevationDeg = 91 }},
		{"inclination out of range", func(m *Measurement) { m.InclinationDeg = -95 }},
		{"zero intensity", func(m *Measurement) { m.IntensityMicroT = 0 }},
		{"infinite altitude", func(m *Measurement) { inf := math.Inf(1); m.AltitudeM = &inf }},
	}

	e := testEstimator(t, DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			if _, err := e.Estimate(context.Background(), m); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"shrink of one", func(c *Config) { c.Shrink = 1 }},
		{"negative weight", func(c *Config) { c.Weights.Azimuth = -1 }},
		{"all weights zero", func(c *Config) { c.Weights = Weights{} }},
		{"zero intensity range", func(c *Config) { c.Ranges.IntensityMicroT = 0 }},
		{"empty longitude grid", func(c *Config) { c.LonStepMax = c.LonStepMin }},
		{"pole limit beyond 90", func(c *Config) { c.PoleLimit = 91 }},
		{"NaN initial step", func(c *Config) { c.InitialStep = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, testLogger()); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLevels(t *testing.T) {
	want := []float64{20, 5, 1.25, 0.3125}
	got := DefaultConfig().Levels()
	if len(got) != len(want) {
		t.Fatalf("Levels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d step = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCandidates(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		center Coordinate
		step   float64
		want   int
	}{
		{"first level covers the globe", Coordinate{}, 20, 162},
		{"rows past the pole limit dropped", Coordinate{Lat: 75, Lon: 0}, 5, 18 * 6},
		{"southern pole limit", Coordinate{Lat: -78, Lon: 40}, 1.25, 18 * 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := candidates(cfg, tt.center, tt.step)
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
			for _, c := range got {
				if math.Abs(c.Lat) > cfg.PoleLimit {
					t.Errorf("candidate %+v beyond pole limit", c)
				}
				if c.Lon <= -180 || c.Lon > 180 {
					t.Errorf("candidate %+v longitude not normalized", c)
				}
			}
		})
	}
}

func TestCandidatesOrderAndWrap(t *testing.T) {
	got := candidates(DefaultConfig(), Coordinate{Lat: 10, Lon: 170}, 5)

	first := Coordinate{Lat: 10 - 4*5, Lon: 170 - 9*5}
	if got[0] != first {
		t.Errorf("first candidate = %+v, want %+v", got[0], first)
	}
	// Longitude-major: the second candidate steps latitude.
	if got[1].Lon != first.Lon || got[1].Lat != first.Lat+5 {
		t.Errorf("second candidate = %+v", got[1])
	}

	last := got[len(got)-1]
	if want := (Coordinate{Lat: 30, Lon: -150}); last != want {
		t.Errorf("last candidate = %+v, want %+v (wrapped)", last, want)
	}
}

func TestScoreWrapsAzimuth(t *testing.T) {
	cfg := DefaultConfig()
	m := Measurement{AzimuthMagneticDeg: 359, ElevationDeg: 10, InclinationDeg: 60, IntensityMicroT: 48}
	p := Prediction{AzimuthMagneticDeg: 1, ElevationDeg: 10, InclinationDeg: 60, IntensityMicroT: 48}

	want := (2.0 / 180) * (2.0 / 180)
	if got := score(m, p, cfg.Weights, cfg.Ranges); math.Abs(got-want) > 1e-15 {
		t.Errorf("score = %g, want %g", got, want)
	}
}

func TestScoreWeights(t *testing.T) {
	cfg := DefaultConfig()
	m := Measurement{AzimuthMagneticDeg: 90, ElevationDeg: 30, InclinationDeg: 60, IntensityMicroT: 50}
	p := Prediction{AzimuthMagneticDeg: 0, ElevationDeg: 30, InclinationDeg: 60, IntensityMicroT: 44}

	full := score(m, p, cfg.Weights, cfg.Ranges)
	if want := 0.25 + 0.01; math.Abs(full-want) > 1e-12 {
		t.Errorf("equal weights score = %g, want %g", full, want)
	}

	magOnly := cfg.Weights
	magOnly.Azimuth, magOnly.Elevation = 0, 0
	if got := score(m, p, magOnly, cfg.Ranges); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("magnetic-only score = %g, want 0.01", got)
	}
}

func TestBestKeepsFirstOnTie(t *testing.T) {
	inf := math.Inf(1)
	batch := []scored{
		{index: 0, cost: inf},
		{index: 1, cost: 0.5},
		{index: 2, cost: 0.25},
		{index: 3, cost: 0.25},
	}
	got, ok := best(batch)
	if !ok || got.index != 2 {
		t.Errorf("best = %d (ok %v), want 2", got.index, ok)
	}

	if _, ok := best([]scored{{cost: inf}, {cost: inf}}); ok {
		t.Error("all-failed batch reported a best candidate")
	}
}

func TestMeasurementAltitude(t *testing.T) {
	alt := 250.0
	tests := []struct {
		name  string
		m     Measurement
		want  float64
		known bool
	}{
		{"explicit altitude", Measurement{AltitudeM: &alt}, 250, true},
		{"barometric altitude", Measurement{Conditions: &atmosphere.Conditions{PressurePa: 89874.6, TemperatureC: 15}}, 1000, true},
		{"implausible pressure", Measurement{Conditions: &atmosphere.Conditions{PressurePa: 5000}}, 0, false},
		{"nothing known", Measurement{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := tt.m.mslAltitude()
			if known != tt.known || math.Abs(got-tt.want) > 1 {
				t.Errorf("mslAltitude() = %.1f, %v; want %.1f, %v", got, known, tt.want, tt.known)
			}
		})
	}
}

func TestEstimateWithAltitude(t *testing.T) {
	when := time.Date(2016, 6, 21, 8, 0, 0, 0, time.UTC)
	m := solarMeasurement(t, when, budapest)
	alt := 120.0
	m.AltitudeM = &alt

	res, err := testEstimator(t, DefaultConfig()).Estimate(context.Background(), m)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	// A few hundred meters of height moves the field by a few nT; the
	// estimate must stay on the reference.
	if math.Abs(res.Coordinate.Lat-budapest.Lat) > 0.5 || math.Abs(res.Coordinate.Lon-budapest.Lon) > 0.5 {
		t.Errorf("estimate = %+v, want within 0.5° of %+v", res.Coordinate, budapest)
	}
}
