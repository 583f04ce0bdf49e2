package geolocate

import (
	"context"

	"github.com/transitview/transitview/pkg/routing"
	"github.com/transitview/transitview/pkg/tvf"
)

const pathColour = "#4299e1"

// PathView is the slice of the map session the planner drives
type PathView interface {
	ShowFlowPath(path []tvf.Location, colour string)
	ClearFlowPath()
}

type Router interface {
	Route(ctx context.Context, mode routing.TravelMode, from tvf.Location, to tvf.Location) (routing.Path, bool)
}

// PathPlanner turns an origin/destination pair into the animated flowing
// path overlay plus an ETA. The routing engine not finding a route is a
// normal outcome - the overlay degrades to the straight segment and the
// ETA to the great-circle estimate
type PathPlanner struct {
	Router Router
	View   PathView
}

func (p *PathPlanner) ShowRoute(ctx context.Context, mode routing.TravelMode, from tvf.Location, to tvf.Location) routing.Estimate {
	path, found := p.Router.Route(ctx, mode, from, to)

	if found {
		p.View.ShowFlowPath(path.Geometry, pathColour)
		return routing.EstimateFromPath(path)
	}

	p.View.ShowFlowPath([]tvf.Location{from, to}, pathColour)
	return routing.WalkEstimate(from, to)
}

// Clear tears the path overlay and its animation down, e.g. on panel close
func (p *PathPlanner) Clear() {
	p.View.ClearFlowPath()
}
