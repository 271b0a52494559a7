package models

import (
	"fmt"
	"math"
)

const EarthRadiusKm = 6371.0

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", p.Longitude)
	}
	return nil
}

// DistanceKm is the haversine great-circle distance between a and b.
func DistanceKm(a, b Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// LatitudeBand bounds the latitudes any point within radiusKm of p can have.
// Stores use it to narrow a radius search before the exact distance check.
func LatitudeBand(p Point, radiusKm float64) (min, max float64) {
	delta := radiusKm / (EarthRadiusKm * math.Pi / 180)
	return math.Max(-90, p.Latitude-delta), math.Min(90, p.Latitude+delta)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
