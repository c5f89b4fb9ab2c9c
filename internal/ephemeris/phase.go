package ephemeris

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/star/skyfix/internal/transform"
)

const kmPerAU = 149597870.7

// Phase describes the Moon's illumination as seen from the Earth's centre.
type Phase struct {
	// ElongationDeg is the Moon's ecliptic longitude minus the Sun's, in [0, 360).
	ElongationDeg float64 `json:"elongation_deg"`
	// PhaseAngleDeg is the Sun-Moon-Earth angle.
	PhaseAngleDeg float64 `json:"phase_angle_deg"`
	// Illuminated is the lit fraction of the disk, 0 at new moon and 1 at full.
	Illuminated float64 `json:"illuminated"`
	Waxing      bool    `json:"waxing"`
}

// MoonPhase returns the lunar phase at t (Meeus ch. 48, geocentric).
func MoonPhase(t time.Time) (Phase, error) {
	if t.IsZero() {
		return Phase{}, fmt.Errorf("%w: zero time", ErrInvalidInput)
	}
	jd := transform.JulianDayAt(t)
	year := 2000 + (jd-2451545)/365.25
	if year < lunarMinYear || year > lunarMaxYear {
		return Phase{}, fmt.Errorf("%w: lunar series undefined for year %.0f", ErrComputationFailure, year)
	}
	jde := jd + deltaT(year)/86400

	lambda, beta, moonKm := moonposition.Position(jde)
	T := base.J2000Century(jde)
	sunLon := solar.ApparentLongitude(T)
	sunKm := solar.Radius(T) * kmPerAU

	// Geocentric elongation ψ, then the phase angle i from the triangle
	// Sun-Earth-Moon.
	cosPsi := math.Cos(beta.Rad()) * math.Cos((lambda - sunLon).Rad())
	psi := math.Acos(clampUnit(cosPsi))
	i := math.Atan2(sunKm*math.Sin(psi), moonKm-sunKm*math.Cos(psi))

	elong := transform.Normalize360((lambda - sunLon).Deg())
	return Phase{
		ElongationDeg: elong,
		PhaseAngleDeg: i * transform.Deg,
		Illuminated:   base.Illuminated(unit.Angle(i)),
		Waxing:        elong < 180,
	}, nil
}
