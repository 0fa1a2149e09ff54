package tide

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometers between two
// coordinate pairs in decimal degrees.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	var (
		phi1     = lat1 * math.Pi / 180
		phi2     = lat2 * math.Pi / 180
		deltaPhi = (lat2 - lat1) * math.Pi / 180
		deltaLam = (lon2 - lon1) * math.Pi / 180
	)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLam/2)*math.Sin(deltaLam/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
