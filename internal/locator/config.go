package locator

import (
	"fmt"
	"math"
	"runtime"
)

// Weights scale the four residual terms of the error function.
type Weights struct {
	Azimuth     float64 `json:"azimuth"`
	Elevation   float64 `json:"elevation"`
	Inclination float64 `json:"inclination"`
	Intensity   float64 `json:"intensity"`
}

// Ranges are the largest plausible differences between a measured and a
// predicted value. Each residual is divided by its range before squaring.
type Ranges struct {
	AzimuthDeg      float64 `json:"azimuth_deg"`
	ElevationDeg    float64 `json:"elevation_deg"`
	InclinationDeg  float64 `json:"inclination_deg"`
	IntensityMicroT float64 `json:"intensity_micro_t"`
}

// Config holds the estimator tunables.
type Config struct {
	Weights Weights
	Ranges  Ranges

	// Candidate offsets per level are i*step for i in [LonStepMin, LonStepMax)
	// and j*step for j in [LatStepMin, LatStepMax].
	LonStepMin, LonStepMax int
	LatStepMin, LatStepMax int

	InitialStep float64 // degrees
	MinStep     float64 // search stops once the step is not above this
	Shrink      float64 // step divisor between levels
	PoleLimit   float64 // candidates with |lat| > PoleLimit are never scored

	Workers int
}

// DefaultConfig returns the reference grid: 18x9 candidates per level,
// steps of 20, 5, 1.25 and 0.3125 degrees, equal weights.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{Azimuth: 1, Elevation: 1, Inclination: 1, Intensity: 1},
		Ranges: Ranges{
			AzimuthDeg:      180,
			ElevationDeg:    180,
			InclinationDeg:  180,
			IntensityMicroT: 75 - 15,
		},
		LonStepMin:  -9,
		LonStepMax:  9,
		LatStepMin:  -4,
		LatStepMax:  4,
		InitialStep: 20,
		MinStep:     0.1,
		Shrink:      4,
		PoleLimit:   80,
		Workers:     runtime.NumCPU(),
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"azimuth range", c.Ranges.AzimuthDeg},
		{"elevation range", c.Ranges.ElevationDeg},
		{"inclination range", c.Ranges.InclinationDeg},
		{"intensity range", c.Ranges.IntensityMicroT},
		{"initial step", c.InitialStep},
		{"min step", c.MinStep},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.v)
		}
	}

	w := c.Weights
	for _, v := range []float64{w.Azimuth, w.Elevation, w.Inclination, w.Intensity} {
		if !(v >= 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weights must be finite and non-negative", ErrInvalidConfig)
		}
	}
	if w.Azimuth+w.Elevation+w.Inclination+w.Intensity == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrInvalidConfig)
	}

	if !(c.Shrink > 1) || math.IsInf(c.Shrink, 0) {
		return fmt.Errorf("%w: shrink must be greater than 1, got %v", ErrInvalidConfig, c.Shrink)
	}
	if c.LonStepMin >= c.LonStepMax || c.LatStepMin > c.LatStepMax {
		return fmt.Errorf("%w: empty candidate grid", ErrInvalidConfig)
	}
	if !(c.PoleLimit > 0 && c.PoleLimit <= 90) {
		return fmt.Errorf("%w: pole limit must be in (0, 90], got %v", ErrInvalidConfig, c.PoleLimit)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Levels returns the step size of every resolution level.
func (c Config) Levels() []float64 {
	var steps []float64
	for step := c.InitialStep; step > c.MinStep; step /= c.Shrink {
		steps = append(steps, step)
	}
	return steps
}

// gridSize is the number of candidates per level before pole exclusion.
func (c Config) gridSize() int {
	return (c.LonStepMax - c.LonStepMin) * (c.LatStepMax - c.LatStepMin + 1)
}
