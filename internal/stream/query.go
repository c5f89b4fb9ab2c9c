package stream

import (
	"fmt"
	"net/http"
	"time"

	"github.com/star/skyfix/internal/atmosphere"
	"github.com/star/skyfix/internal/ephemeris"
	"github.com/star/skyfix/internal/httputil"
	"github.com/star/skyfix/internal/locator"
)

// MeasurementFromQuery reads a sighting from query parameters:
//
//	target, time, azimuth, elevation, inclination, intensity
//	[alt] [pressure] [temperature]
//
// time is RFC 3339 or epoch milliseconds and defaults to now; angles are in
// degrees, intensity in µT, pressure in Pa, temperature in °C.
func MeasurementFromQuery(r *http.Request, now time.Time) (locator.Measurement, error) {
	target, err := ephemeris.ParseTarget(r.URL.Query().Get("target"))
	if err != nil {
		return locator.Measurement{}, fmt.Errorf("%w: %v", httputil.ErrBadParam, err)
	}
	when, err := httputil.Time(r, "time", now)
	if err != nil {
		return locator.Measurement{}, err
	}

	m := locator.Measurement{Time: when, Target: target}
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"azimuth", &m.AzimuthMagneticDeg},
		{"elevation", &m.ElevationDeg},
		{"inclination", &m.InclinationDeg},
		{"intensity", &m.IntensityMicroT},
	} {
		if *p.dst, err = httputil.Float(r, p.name); err != nil {
			return locator.Measurement{}, err
		}
	}

	if m.AltitudeM, err = httputil.OptionalFloat(r, "alt"); err != nil {
		return locator.Measurement{}, err
	}

	if m.Conditions, err = ConditionsFromQuery(r); err != nil {
		return locator.Measurement{}, err
	}
	return m, nil
}

// ConditionsFromQuery reads the optional pressure (Pa) and temperature (°C)
// parameters. It returns nil when neither is present; a missing one takes
// its standard value.
func ConditionsFromQuery(r *http.Request) (*atmosphere.Conditions, error) {
	pressure, err := httputil.OptionalFloat(r, "pressure")
	if err != nil {
		return nil, err
	}
	temperature, err := httputil.OptionalFloat(r, "temperature")
	if err != nil {
		return nil, err
	}
	if pressure == nil && temperature == nil {
		return nil, nil
	}
	c := atmosphere.StandardConditions()
	if pressure != nil {
		c.PressurePa = *pressure
	}
	if temperature != nil {
		c.TemperatureC = *temperature
	}
	return &c, nil
}
