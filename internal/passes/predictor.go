// Package passes predicts when the Sun or Moon stands high enough above an
// observer's horizon to be photographed for a position fix.
package passes

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/star/skyfix/internal/atmosphere"
	"github.com/star/skyfix/internal/ephemeris"
)

// TrackPoint is the body's apparent position at one instant of a pass.
type TrackPoint struct {
	Time         time.Time `json:"time"`
	AzimuthDeg   float64   `json:"azimuth_deg"`
	ElevationDeg float64   `json:"elevation_deg"`
}

// Pass is one interval with the body at or above the minimum elevation.
// Azimuths are referred to true north.
type Pass struct {
	StartTime        time.Time    `json:"start_time"`
	MaxElevationTime time.Time    `json:"max_elevation_time"`
	EndTime          time.Time    `json:"end_time"`
	DurationSeconds  float64      `json:"duration_seconds"`
	MaxElevation     float64      `json:"max_elevation"`
	AzimuthAtMax     float64      `json:"azimuth_at_max"`
	StartAzimuth     float64      `json:"start_azimuth"`
	EndAzimuth       float64      `json:"end_azimuth"`
	Track            []TrackPoint `json:"track"`
}

// TargetPasses holds the predicted passes for one body.
type TargetPasses struct {
	Target ephemeris.Target `json:"target"`
	Passes []Pass           `json:"passes"`
	Error  string           `json:"error,omitempty"`
}

// Request holds the parameters for a pass prediction.
type Request struct {
	Lat, Lon     float64
	Targets      []ephemeris.Target
	Start        time.Time
	HorizonHours float64
	MinElevation float64 // degrees, apparent
	MaxPasses    int
	// Conditions refract the Moon; nil means the standard atmosphere.
	Conditions *atmosphere.Conditions
}

const (
	coarseStep = 10 * time.Minute
	fineStep   = 30 * time.Second
	trackStep  = 15 * time.Minute
	minPassDur = time.Minute
)

// Predict computes passes for every requested target. Targets are processed
// concurrently, bounded by the number of CPUs.
func Predict(ctx context.Context, req Request) []TargetPasses {
	results := make([]TargetPasses, len(req.Targets))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, target := range req.Targets {
		wg.Add(1)
		go func(idx int, tg ephemeris.Target) {
			defer wg.Done()

			if ctx.Err() != nil {
				results[idx] = TargetPasses{Target: tg, Error: "cancelled"}
				return
			}
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = TargetPasses{Target: tg, Error: "cancelled"}
				return
			}

			passes, err := predictTarget(ctx, req, tg)
			if err != nil {
				results[idx] = TargetPasses{Target: tg, Error: err.Error()}
				return
			}
			results[idx] = TargetPasses{Target: tg, Passes: passes}
		}(i, target)
	}

	wg.Wait()
	return results
}

// sampler evaluates one body for one observer.
type sampler struct {
	target     ephemeris.Target
	lat, lon   float64
	conditions atmosphere.Conditions
}

func (s sampler) at(t time.Time) (ephemeris.Horizontal, error) {
	snap, err := ephemeris.At(s.target, t)
	if err != nil {
		return ephemeris.Horizontal{}, err
	}
	return snap.WithConditions(s.conditions).Horizontal(s.lat, s.lon)
}

// predictTarget finds all passes of one body.
func predictTarget(ctx context.Context, req Request, target ephemeris.Target) ([]Pass, error) {
	if req.HorizonHours <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive", ephemeris.ErrInvalidInput)
	}
	s := sampler{target: target, lat: req.Lat, lon: req.Lon, conditions: atmosphere.StandardConditions()}
	if req.Conditions != nil {
		s.conditions = *req.Conditions
	}

	// Fail fast on inputs no instant can satisfy.
	if _, err := s.at(req.Start); err != nil {
		return nil, err
	}

	end := req.Start.Add(time.Duration(req.HorizonHours * float64(time.Hour)))
	var passes []Pass

	// Coarse scan for any sample at or above the minimum elevation.
	t := req.Start
	for t.Before(end) && len(passes) < req.MaxPasses {
		if ctx.Err() != nil {
			return passes, nil
		}

		h, err := s.at(t)
		if err != nil {
			return passes, err
		}

		if h.ElevationDeg >= req.MinElevation {
			pass, windowEnd := refinePass(ctx, s, t, req.Start, end, req.MinElevation)
			if pass != nil && pass.EndTime.Sub(pass.StartTime) >= minPassDur {
				passes = append(passes, *pass)
			}
			t = windowEnd.Add(coarseStep)
		} else {
			t = t.Add(coarseStep)
		}
	}

	return passes, nil
}

// refinePass scans at fineStep from one coarse step before coarseHit to find
// rise, culmination and set. It returns the pass and the time scanning stopped.
func refinePass(ctx context.Context, s sampler, coarseHit, windowStart, windowEnd time.Time, minElev float64) (*Pass, time.Time) {
	searchStart := coarseHit.Add(-coarseStep)
	if searchStart.Before(windowStart) {
		searchStart = windowStart
	}

	var (
		p         Pass
		wasAbove  bool
		foundRise bool
		nextTrack time.Time
	)

	t := searchStart
	for ; t.Before(windowEnd); t = t.Add(fineStep) {
		if ctx.Err() != nil {
			break
		}

		h, err := s.at(t)
		if err != nil {
			continue
		}
		above := h.ElevationDeg >= minElev

		if above && !wasAbove {
			p = Pass{
				StartTime:        t,
				StartAzimuth:     h.AzimuthDeg,
				MaxElevation:     h.ElevationDeg,
				MaxElevationTime: t,
				AzimuthAtMax:     h.AzimuthDeg,
			}
			foundRise = true
			nextTrack = t
		}

		if above && foundRise {
			if h.ElevationDeg > p.MaxElevation {
				p.MaxElevation = h.ElevationDeg
				p.MaxElevationTime = t
				p.AzimuthAtMax = h.AzimuthDeg
			}
			if !t.Before(nextTrack) {
				p.Track = append(p.Track, TrackPoint{Time: t, AzimuthDeg: h.AzimuthDeg, ElevationDeg: h.ElevationDeg})
				nextTrack = t.Add(trackStep)
			}
		}

		if !above && wasAbove && foundRise {
			p.EndTime = t
			p.EndAzimuth = h.AzimuthDeg
			break
		}

		wasAbove = above
	}

	if !foundRise {
		return nil, t
	}

	// Still above at the end of the window: close the pass there.
	if p.EndTime.IsZero() {
		p.EndTime = t
		if h, err := s.at(t); err == nil {
			p.EndAzimuth = h.AzimuthDeg
		}
	}
	p.DurationSeconds = p.EndTime.Sub(p.StartTime).Seconds()
	return &p, p.EndTime
}
