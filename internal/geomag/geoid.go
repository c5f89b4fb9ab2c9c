package geomag

import (
	"fmt"

	"github.com/westphae/geomag/pkg/egm96"
)

// GeoidHeight returns the EGM96 geoid undulation N in meters: the height
// of mean sea level above the WGS84 ellipsoid.
func GeoidHeight(latDeg, lonDeg float64) (float64, error) {
	loc := egm96.NewLocationGeodetic(latDeg, lonDeg, 0)
	msl, err := loc.HeightAboveMSL()
	if err != nil {
		return 0, fmt.Errorf("egm96 geoid at (%.4f, %.4f): %w", latDeg, lonDeg, err)
	}
	return -msl, nil
}

// EllipsoidalHeight converts a height above mean sea level to a height above
// the ellipsoid, which is what Model.Evaluate expects. When the geoid lookup
// fails the MSL height is returned unchanged with the error.
func EllipsoidalHeight(latDeg, lonDeg, mslM float64) (float64, error) {
	n, err := GeoidHeight(latDeg, lonDeg)
	if err != nil {
		return mslM, err
	}
	return mslM + n, nil
}
