package util

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	// Two points a few hundred metres apart in Bengaluru.
	d := DistanceKm(12.9716, 77.5946, 12.9720, 77.5950)
	if d > 0.1 {
		t.Errorf("DistanceKm = %v km; expected well under 0.1 km", d)
	}

	d = DistanceKm(12.9716, 77.5946, 13.05, 77.60)
	if d < 8 || d > 10 {
		t.Errorf("DistanceKm = %v km; expected roughly 9 km", d)
	}

	if d := DistanceKm(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Errorf("DistanceKm of identical points = %v; want 0", d)
	}
}

func TestLocationsWithinRadius(t *testing.T) {
	testCases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		threshold              float64
		want                   bool
	}{
		{"nearby points match", 12.9716, 77.5946, 12.9720, 77.5950, 0.5, true},
		{"distant points do not match", 12.9716, 77.5946, 13.05, 77.60, 0.5, false},
		{"identical points match", 12.90, 77.50, 12.90, 77.50, 0.5, true},
		{"sequence of pothole reports", 12.90, 77.50, 12.9005, 77.5002, 0.5, true},
		{"just beyond threshold", 12.90, 77.50, 12.91, 77.50, 0.5, false},
		{"NaN latitude never matches", math.NaN(), 77.50, 12.90, 77.50, 0.5, false},
		{"latitude out of range never matches", 95.0, 77.50, 12.90, 77.50, 0.5, false},
		{"longitude out of range never matches", 12.90, 181.0, 12.90, 77.50, 0.5, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := LocationsWithinRadius(tc.lat1, tc.lon1, tc.lat2, tc.lon2, tc.threshold)
			if got != tc.want {
				t.Errorf("LocationsWithinRadius(%v,%v, %v,%v, %v) = %v; want %v",
					tc.lat1, tc.lon1, tc.lat2, tc.lon2, tc.threshold, got, tc.want)
			}
		})
	}
}

func TestValidCoordinates(t *testing.T) {
	if !ValidCoordinates(0, 0) {
		t.Error("ValidCoordinates(0, 0) = false; want true")
	}
	if ValidCoordinates(math.Inf(1), 0) {
		t.Error("ValidCoordinates(+Inf, 0) = true; want false")
	}
	if ValidCoordinates(-90.1, 0) {
		t.Error("ValidCoordinates(-90.1, 0) = true; want false")
	}
}
