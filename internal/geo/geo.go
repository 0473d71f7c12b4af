// Package geo provides the great-circle distance helpers shared by the
// location-aware dataset servers.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by every distance
// computation in this module.
const earthRadiusMeters = 6371000.0

// MetersPerMile converts canonical meter distances into miles for the
// domains that report imperial units.
const MetersPerMile = 1609.344

// Distance returns the great-circle distance in meters between two points
// given in decimal degrees, using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	rlat1 := lat1 * degToRad
	rlat2 := lat2 * degToRad
	dlat := (lat2 - lat1) * degToRad
	dlon := (lon2 - lon1) * degToRad

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Miles converts a meter distance to miles.
func Miles(meters float64) float64 {
	return meters / MetersPerMile
}

// Round2 rounds to two decimal places, the precision every domain uses for
// reported distances.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
