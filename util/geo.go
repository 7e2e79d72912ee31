package util

import (
	"log"
	"math"
)

const earthRadiusKm = 6371

// DefaultMatchRadiusKm is the radius within which two reports are considered
// to describe the same real-world location.
const DefaultMatchRadiusKm = 0.5

// ValidCoordinates reports whether a latitude/longitude pair is a usable
// geographic position.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// DistanceKm computes the great-circle distance between two coordinates
// using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// LocationsWithinRadius reports whether two coordinates are within
// thresholdKm of each other. Malformed coordinates never match; they are
// logged and treated as "not similar" rather than surfaced as errors, so a
// single bad report cannot poison issue matching.
func LocationsWithinRadius(lat1, lon1, lat2, lon2, thresholdKm float64) bool {
	if !ValidCoordinates(lat1, lon1) || !ValidCoordinates(lat2, lon2) {
		log.Printf("invalid coordinates comparing [%v, %v] and [%v, %v]", lat1, lon1, lat2, lon2)
		return false
	}
	return DistanceKm(lat1, lon1, lat2, lon2) <= thresholdKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
