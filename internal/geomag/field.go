package geomag

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/star/skyfix/internal/transform"
)

// ErrInvalidInput is returned for non-finite or out-of-range coordinates.
var ErrInvalidInput = errors.New("invalid input")

const (
	// Geomagnetic reference radius (km).
	referenceRadiusKm = 6371.2

	// The sum divides by cos(latitude); keep clear of the poles.
	maxLatitude = 90 - 1e-5

	secondsPerModelYear = 365 * 24 * 60 * 60
)

// FieldSample is the magnetic field at one point. Components are in nT in
// the local geodetic frame: X north, Y east, Z down.
type FieldSample struct {
	X, Y, Z            float64
	DeclinationDeg     float64
	InclinationDeg     float64
	HorizontalStrength float64
	TotalStrength      float64

	Epoch int
	// CoverageGap is set when the time lies outside the model's validity window.
	CoverageGap bool
}

// Model is a coefficient set interpolated to one instant. It is immutable
// and safe for concurrent use.
type Model struct {
	epoch       int
	coverageGap bool
	maxN        int
	g, h        [][]float64
	schmidt     [][]float64
}

// NewModel applies secular variation from the start of the coefficients'
// epoch year to t.
func NewModel(c *Coefficients, t time.Time) *Model {
	t = t.UTC()
	base := time.Date(c.Epoch, time.January, 1, 0, 0, 0, 0, time.UTC)
	years := t.Sub(base).Seconds() / secondsPerModelYear

	maxN := c.MaxDegree()
	g := make([][]float64, maxN+1)
	h := make([][]float64, maxN+1)
	for n := 0; n <= maxN; n++ {
		g[n] = make([]float64, n+1)
		h[n] = make([]float64, n+1)
		for m := 0; m <= n; m++ {
			g[n][m] = c.G[n][m] + years*c.DG[n][m]
			h[n][m] = c.H[n][m] + years*c.DH[n][m]
		}
	}

	return &Model{
		epoch:       c.Epoch,
		coverageGap: !c.Covers(t.Year()),
		maxN:        maxN,
		g:           g,
		h:           h,
		schmidt:     schmidtFactors(maxN),
	}
}

// NewModelAt selects the coefficients for t and interpolates them.
func NewModelAt(t time.Time) *Model {
	return NewModel(ForTime(t), t)
}

// Epoch returns the base year of the underlying coefficients.
func (md *Model) Epoch() int { return md.epoch }

// CoverageGap reports whether the model is extrapolated beyond its window.
func (md *Model) CoverageGap() bool { return md.coverageGap }

// Evaluate returns the field at a geodetic latitude and longitude (degrees)
// and a height above the WGS84 ellipsoid (meters).
func (md *Model) Evaluate(latDeg, lonDeg, altM float64) (FieldSample, error) {
	if !transform.ValidLatitude(latDeg) || !transform.ValidLongitude(lonDeg) ||
		math.IsNaN(altM) || math.IsInf(altM, 0) {
		return FieldSample{}, fmt.Errorf("%w: lat=%v lon=%v alt=%v", ErrInvalidInput, latDeg, lonDeg, altM)
	}
	latDeg = math.Max(-maxLatitude, math.Min(maxLatitude, latDeg))

	gcLat, radiusKm := transform.GeodeticToGeocentric(latDeg, altM)
	lon := lonDeg * transform.Rad

	// (a/r)^(n+2) for n up to maxN.
	ratio := referenceRadiusKm / radiusKm
	rrp := make([]float64, md.maxN+3)
	rrp[0] = 1
	for i := 1; i < len(rrp); i++ {
		rrp[i] = rrp[i-1] * ratio
	}

	// sin(m·lon), cos(m·lon) by the angle-addition recurrence.
	sinM := make([]float64, md.maxN+1)
	cosM := make([]float64, md.maxN+1)
	cosM[0] = 1
	if md.maxN > 0 {
		sinM[1], cosM[1] = math.Sincos(lon)
	}
	for m := 2; m <= md.maxN; m++ {
		half := m >> 1
		sinM[m] = sinM[m-half]*cosM[half] + cosM[m-half]*sinM[half]
		cosM[m] = cosM[m-half]*cosM[half] - sinM[m-half]*sinM[half]
	}

	leg := newLegendre(math.Pi/2-gcLat, md.maxN)
	cosLat := math.Cos(gcLat)

	var gcX, gcY, gcZ float64
	for n := 1; n <= md.maxN; n++ {
		for m := 0; m <= n; m++ {
			g := md.g[n][m]
			h := md.h[n][m]
			s := md.schmidt[n][m]
			r := rrp[n+2]

			gcX += r * (g*cosM[m] + h*sinM[m]) * leg.dP[n][m] * s
			gcY += r * float64(m) * (g*sinM[m] - h*cosM[m]) * leg.P[n][m] * s
			gcZ -= float64(n+1) * r * (g*cosM[m] + h*sinM[m]) * leg.P[n][m] * s
		}
	}
	gcY /= cosLat

	// Rotate from the geocentric to the geodetic frame.
	latDiff := latDeg*transform.Rad - gcLat
	sinD, cosD := math.Sincos(latDiff)
	x := gcX*cosD + gcZ*sinD
	y := gcY
	z := -gcX*sinD + gcZ*cosD

	horizontal := math.Hypot(x, y)
	total := math.Hypot(horizontal, z)

	return FieldSample{
		X:                  x,
		Y:                  y,
		Z:                  z,
		DeclinationDeg:     math.Atan2(y, x) * transform.Deg,
		InclinationDeg:     math.Atan2(z, horizontal) * transform.Deg,
		HorizontalStrength: horizontal,
		TotalStrength:      total,
		Epoch:              md.epoch,
		CoverageGap:        md.coverageGap,
	}, nil
}

// Evaluate interpolates c to t and evaluates it at one point.
func Evaluate(c *Coefficients, t time.Time, latDeg, lonDeg, altM float64) (FieldSample, error) {
	return NewModel(c, t).Evaluate(latDeg, lonDeg, altM)
}

// EvaluateAt selects the model for t and evaluates it at one point.
func EvaluateAt(t time.Time, latDeg, lonDeg, altM float64) (FieldSample, error) {
	return NewModelAt(t).Evaluate(latDeg, lonDeg, altM)
}
