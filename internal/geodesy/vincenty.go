package geodesy

import (
	"fmt"
	"math"

	"github.com/star/skyfix/internal/transform"
)

const (
	vincentyMaxIter   = 100
	vincentyTolerance = 1e-12

	// Nearly antipodal pairs: longitudes almost opposite, both near the equator.
	antipodalMinDLon  = 179 * math.Pi / 180
	antipodalMaxAvgLa = 1 * math.Pi / 180

	// Each split halves the longitude span, so one level is enough in
	// practice; the bound only guards against pathological recursion.
	maxSplitDepth = 2
)

// vincenty is the inverse Vincenty formula on the WGS84 ellipsoid. Inputs
// are radians. When the iteration does not converge and the points are
// nearly antipodal, the path is split at the midpoint and the halves summed.
func vincenty(lat1, lon1, lat2, lon2 float64, depth int) (float64, error) {
	const (
		a = transform.WGS84A
		b = transform.WGS84B
		f = transform.WGS84F
	)

	L := transform.NormalizeLongitudeRad(lon2 - lon1)
	U1 := math.Atan((1 - f) * math.Tan(lat1))
	U2 := math.Atan((1 - f) * math.Tan(lat2))
	sinU1, cosU1 := math.Sincos(U1)
	sinU2, cosU2 := math.Sincos(U2)

	var (
		sinSigma, cosSigma, sigma float64
		cosSqAlpha, cos2SigmaM    float64
		converged                 bool
	)

	lambda := L
	for i := 0; i < vincentyMaxIter; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(t1*t1 + t2*t2)
		if sinSigma == 0 {
			// Coincident points.
			return 0, nil
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		if math.IsNaN(cos2SigmaM) || math.IsInf(cos2SigmaM, 0) {
			// Equatorial line: cosSqAlpha = 0.
			cos2SigmaM = 0
		}
		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))

		prev := lambda
		lambda = L + (1-C)*f*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) <= vincentyTolerance {
			converged = true
			break
		}
	}

	if !converged {
		return splitAntipodal(lat1, lon1, lat2, lon2, depth)
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return b * A * (sigma - deltaSigma), nil
}

func splitAntipodal(lat1, lon1, lat2, lon2 float64, depth int) (float64, error) {
	avgLat := (lat1 + lat2) / 2
	dLon := transform.NormalizeLongitudeRad(lon2 - lon1)

	if depth <= 0 || math.Abs(dLon) <= antipodalMinDLon || math.Abs(avgLat) >= antipodalMaxAvgLa {
		return math.NaN(), fmt.Errorf("%w: (%.6f, %.6f) -> (%.6f, %.6f) rad",
			ErrNoConvergence, lat1, lon1, lat2, lon2)
	}

	midLon := transform.NormalizeLongitudeRad(lon1 + dLon/2)

	d1, err := vincenty(lat1, lon1, avgLat, midLon, depth-1)
	if err != nil {
		return math.NaN(), err
	}
	d2, err := vincenty(avgLat, midLon, lat2, lon2, depth-1)
	if err != nil {
		return math.NaN(), err
	}
	return d1 + d2, nil
}
