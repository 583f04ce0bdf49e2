package geolocate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitview/transitview/pkg/routing"
	"github.com/transitview/transitview/pkg/tvf"
)

type fakeRouter struct {
	path  routing.Path
	found bool
}

func (f *fakeRouter) Route(ctx context.Context, mode routing.TravelMode, from tvf.Location, to tvf.Location) (routing.Path, bool) {
	return f.path, f.found
}

type fakePathView struct {
	shown   [][]tvf.Location
	cleared int
}

func (v *fakePathView) ShowFlowPath(path []tvf.Location, colour string) {
	v.shown = append(v.shown, path)
}

func (v *fakePathView) ClearFlowPath() {
	v.cleared++
}

func TestShowRouteUsesRoutedPath(t *testing.T) {
	geometry := []tvf.Location{
		{Latitude: 42.36, Longitude: -71.05},
		{Latitude: 42.365, Longitude: -71.055},
		{Latitude: 42.37, Longitude: -71.06},
	}

	view := &fakePathView{}
	planner := &PathPlanner{
		Router: &fakeRouter{
			path: routing.Path{
				Geometry:       geometry,
				DistanceMetres: 1500,
				Duration:       18 * time.Minute,
			},
			found: true,
		},
		View: view,
	}

	from := tvf.Location{Latitude: 42.36, Longitude: -71.05}
	to := tvf.Location{Latitude: 42.37, Longitude: -71.06}

	estimate := planner.ShowRoute(context.Background(), routing.TravelModeWalk, from, to)

	require.Len(t, view.shown, 1)
	assert.Equal(t, geometry, view.shown[0])
	assert.False(t, estimate.Estimated)
	assert.Equal(t, 18, estimate.Minutes)
}

func TestShowRouteDegradesToStraightSegment(t *testing.T) {
	view := &fakePathView{}
	planner := &PathPlanner{
		Router: &fakeRouter{found: false},
		View:   view,
	}

	from := tvf.Location{Latitude: 42.36, Longitude: -71.05}
	to := tvf.Location{Latitude: 42.37, Longitude: -71.06}

	estimate := planner.ShowRoute(context.Background(), routing.TravelModeWalk, from, to)

	require.Len(t, view.shown, 1)
	assert.Equal(t, []tvf.Location{from, to}, view.shown[0])
	assert.True(t, estimate.Estimated)
	assert.Greater(t, estimate.Minutes, 0)
}

func TestClearTearsOverlayDown(t *testing.T) {
	view := &fakePathView{}
	planner := &PathPlanner{Router: &fakeRouter{}, View: view}

	planner.Clear()
	assert.Equal(t, 1, view.cleared)
}
