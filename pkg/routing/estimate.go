package routing

import (
	"math"

	"github.com/transitview/transitview/pkg/tvf"
)

// Streets are never as straight as the great circle
const streetCorrectionFactor = 1.3

const walkingSpeedKmh = 5.0

// Floor on reported walking time - no provider response may claim a faster
// pace than this
const MinMinutesPerKm = 10.0

type Estimate struct {
	DistanceKm float64 `json:"distance_km" groups:"basic"`
	Minutes    int     `json:"minutes" groups:"basic"`

	// True when this came from the straight-line fallback rather than the
	// routing engine
	Estimated bool `json:"estimated" groups:"basic"`
}

// WalkEstimate computes the straight-line fallback walking estimate between
// two points
func WalkEstimate(from tvf.Location, to tvf.Location) Estimate {
	distanceKm := from.DistanceKm(to) * streetCorrectionFactor
	minutes := distanceKm / walkingSpeedKmh * 60

	return Estimate{
		DistanceKm: distanceKm,
		Minutes:    clampWalkingMinutes(distanceKm, minutes),
		Estimated:  true,
	}
}

// EstimateFromPath converts a routed path into a walk estimate, still
// subject to the minimum pace floor
func EstimateFromPath(path Path) Estimate {
	distanceKm := path.DistanceMetres / 1000

	return Estimate{
		DistanceKm: distanceKm,
		Minutes:    clampWalkingMinutes(distanceKm, path.Duration.Minutes()),
		Estimated:  false,
	}
}

func clampWalkingMinutes(distanceKm float64, minutes float64) int {
	floor := distanceKm * MinMinutesPerKm

	if minutes < floor {
		minutes = floor
	}

	return int(math.Ceil(minutes))
}
