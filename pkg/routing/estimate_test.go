package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/transitview/transitview/pkg/tvf"
)

func TestWalkEstimateAppliesStreetCorrection(t *testing.T) {
	// Roughly 1km apart on the great circle
	from := tvf.Location{Latitude: 42.3600, Longitude: -71.0589}
	to := tvf.Location{Latitude: 42.3690, Longitude: -71.0589}

	estimate := WalkEstimate(from, to)

	assert.True(t, estimate.Estimated)
	assert.Greater(t, estimate.DistanceKm, from.DistanceKm(to))
	assert.GreaterOrEqual(t, float64(estimate.Minutes), estimate.DistanceKm*MinMinutesPerKm)
}

func TestEstimateFromPathRespectsMinimumPace(t *testing.T) {
	// The routing engine claims an implausible 5 minutes for 2km; the
	// reported time must respect the pace floor instead
	estimate := EstimateFromPath(Path{
		DistanceMetres: 2000,
		Duration:       5 * time.Minute,
	})

	assert.False(t, estimate.Estimated)
	assert.Equal(t, 20, estimate.Minutes)
}

func TestEstimateFromPathKeepsPlausibleDuration(t *testing.T) {
	estimate := EstimateFromPath(Path{
		DistanceMetres: 2000,
		Duration:       25 * time.Minute,
	})

	assert.Equal(t, 25, estimate.Minutes)
	assert.InDelta(t, 2.0, estimate.DistanceKm, 0.001)
}
