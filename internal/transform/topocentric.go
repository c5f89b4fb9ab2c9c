package transform

import "math"

// WGS-84 ellipsoid parameters.
const (
	WGS84A  = 6378137.0             // semi-major axis (meters)
	WGS84F  = 1.0 / 298.257223563   // flattening
	WGS84B  = WGS84A * (1 - WGS84F) // semi-minor axis (meters)
	wgs84E2 = WGS84F * (2 - WGS84F) // first eccentricity squared
)

// ObserverPosition holds a ground observer's location in both geodetic and ECEF frames.
// ECEF coordinates are precomputed once so they can be reused across many lookups.
type ObserverPosition struct {
	LatRad, LonRad, AltM float64 // geodetic (radians, meters above ellipsoid)
	ECEFx, ECEFy, ECEFz  float64 // precomputed ECEF (meters)
}

// LookAngles holds azimuth, elevation, and range from an observer to a target.
type LookAngles struct {
	AzimuthDeg   float64 // 0 = North, clockwise
	ElevationDeg float64 // 0 = horizon, 90 = zenith
	RangeKm      float64
}

// NewObserverPosition creates an ObserverPosition from geodetic coordinates.
// Latitude and longitude are in degrees, altitude in meters above the WGS-84 ellipsoid.
func NewObserverPosition(latDeg, lonDeg, altM float64) ObserverPosition {
	lat := latDeg * Rad
	lon := lonDeg * Rad

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	N := WGS84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return ObserverPosition{
		LatRad: lat,
		LonRad: lon,
		AltM:   altM,
		ECEFx:  (N + altM) * cosLat * math.Cos(lon),
		ECEFy:  (N + altM) * cosLat * math.Sin(lon),
		ECEFz:  (N*(1-wgs84E2) + altM) * sinLat,
	}
}

// LookAt computes the look angles from the observer to an ECEF position.
func (obs ObserverPosition) LookAt(p PositionECEF) LookAngles {
	return ECEFToLookAngles(obs, p.X, p.Y, p.Z)
}

// ECEFToLookAngles computes azimuth, elevation, and range from an observer
// to a target given in ECEF meters.
//
// Uses the SEZ (South-East-Zenith) topocentric rotation per Vallado Section 4.4.
func ECEFToLookAngles(obs ObserverPosition, x, y, z float64) LookAngles {
	rx := x - obs.ECEFx
	ry := y - obs.ECEFy
	rz := z - obs.ECEFz

	sinLat := math.Sin(obs.LatRad)
	cosLat := math.Cos(obs.LatRad)
	sinLon := math.Sin(obs.LonRad)
	cosLon := math.Cos(obs.LonRad)

	south := sinLat*cosLon*rx + sinLat*sinLon*ry - cosLat*rz
	east := -sinLon*rx + cosLon*ry
	zenith := cosLat*cosLon*rx + cosLat*sinLon*ry + sinLat*rz

	rangeMag := math.Sqrt(south*south + east*east + zenith*zenith)

	el := math.Asin(zenith / rangeMag)

	// North is -South in SEZ.
	az := math.Atan2(east, -south)
	if az < 0 {
		az += 2 * math.Pi
	}

	return LookAngles{
		AzimuthDeg:   az * Deg,
		ElevationDeg: el * Deg,
		RangeKm:      rangeMag / 1000.0,
	}
}

// GeodeticToGeocentric converts a geodetic latitude (degrees) and height above
// the ellipsoid (meters) into geocentric latitude (radians) and geocentric
// radius (km).
func GeodeticToGeocentric(latDeg, altM float64) (gcLatRad, radiusKm float64) {
	const (
		aKm = WGS84A / 1000.0
		bKm = WGS84B / 1000.0
	)
	altKm := altM / 1000.0
	a2 := aKm * aKm
	b2 := bKm * bKm

	lat := latDeg * Rad
	clat := math.Cos(lat)
	slat := math.Sin(lat)
	tlat := slat / clat

	rho := math.Sqrt(a2*clat*clat + b2*slat*slat)
	gcLatRad = math.Atan(tlat * (rho*altKm + b2) / (rho*altKm + a2))

	radSq := altKm*altKm +
		2*altKm*rho +
		(a2*a2*clat*clat+b2*b2*slat*slat)/(a2*clat*clat+b2*slat*slat)
	return gcLatRad, math.Sqrt(radSq)
}
