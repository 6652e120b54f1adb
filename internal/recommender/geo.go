package recommender

import "math"

// HaversineKm calculates the great-circle distance between two points in
// kilometers. Inputs are not range-validated.
func HaversineKm(a, b Coordinate) float64 {
	const R = 6371.0 // Earth radius km
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceScore maps a distance to a 0..100 proximity score, losing 10
// points per kilometer. Stores beyond 10 km score zero.
func DistanceScore(distanceKm float64) float64 {
	score := 100 - distanceKm*10
	if score < 0 {
		return 0
	}
	return score
}
