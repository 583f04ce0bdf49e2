package tvf

import "math"

const earthRadiusKm = 6371

type Location struct {
	Latitude  float64 `json:"latitude" groups:"basic"`
	Longitude float64 `json:"longitude" groups:"basic"`
}

// DistanceKm is the haversine great-circle distance between two locations
func (l Location) DistanceKm(other Location) float64 {
	dLat := (other.Latitude - l.Latitude) * math.Pi / 180
	dLon := (other.Longitude - l.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(l.Latitude*math.Pi/180)*math.Cos(other.Latitude*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// InterpolateTo returns the linear interpolation between two locations at
// progress t in [0, 1]
func (l Location) InterpolateTo(other Location, t float64) Location {
	return Location{
		Latitude:  l.Latitude + (other.Latitude-l.Latitude)*t,
		Longitude: l.Longitude + (other.Longitude-l.Longitude)*t,
	}
}
