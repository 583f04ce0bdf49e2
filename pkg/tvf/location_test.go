package tvf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	parkStreet := Location{Latitude: 42.3564, Longitude: -71.0624}
	harvard := Location{Latitude: 42.3736, Longitude: -71.1190}

	distance := parkStreet.DistanceKm(harvard)

	assert.InDelta(t, 5.0, distance, 0.3)
	assert.Equal(t, 0.0, parkStreet.DistanceKm(parkStreet))
}

func TestInterpolateTo(t *testing.T) {
	from := Location{Latitude: 42.0, Longitude: -71.0}
	to := Location{Latitude: 43.0, Longitude: -72.0}

	assert.Equal(t, from, from.InterpolateTo(to, 0))
	assert.Equal(t, to, from.InterpolateTo(to, 1))

	midpoint := from.InterpolateTo(to, 0.5)
	assert.InDelta(t, 42.5, midpoint.Latitude, 0.000001)
	assert.InDelta(t, -71.5, midpoint.Longitude, 0.000001)
}
