package livemap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitview/transitview/pkg/geolocate"
	"github.com/transitview/transitview/pkg/mapsession"
	"github.com/transitview/transitview/pkg/routing"
	"github.com/transitview/transitview/pkg/snapshot"
	"github.com/transitview/transitview/pkg/tvf"
)

type offlineRouter struct{}

func (offlineRouter) Route(ctx context.Context, mode routing.TravelMode, from tvf.Location, to tvf.Location) (routing.Path, bool) {
	return routing.Path{}, false
}

// newOfflineEngine wires just enough of the engine for origin and nearby
// lookups without touching any external service
func newOfflineEngine(staticStops []tvf.Stop) *Engine {
	engine := &Engine{
		Store:       snapshot.NewStore(),
		Renderer:    NewStateRenderer(),
		Watcher:     &RemoteWatcher{},
		staticStops: staticStops,
	}

	engine.Animator = mapsession.NewAnimator(nil)
	engine.Session = mapsession.NewSession(engine.Renderer, engine.Animator, time.Second)
	engine.Origin = &geolocate.OriginTracker{Watcher: engine.Watcher, View: engine.Session}
	engine.Planner = &geolocate.PathPlanner{Router: offlineRouter{}, View: engine.Session}

	return engine
}

func bostonStops() []tvf.Stop {
	return []tvf.Stop{
		{
			PrimaryIdentifier: "place-pktrm",
			Name:              "Park Street",
			Location:          tvf.Location{Latitude: 42.3564, Longitude: -71.0624},
			Kind:              tvf.StopKindStation,
		},
		{
			PrimaryIdentifier: "place-dwnxg",
			Name:              "Downtown Crossing",
			Location:          tvf.Location{Latitude: 42.3555, Longitude: -71.0602},
			Kind:              tvf.StopKindStation,
		},
		{
			PrimaryIdentifier: "place-harsq",
			Name:              "Harvard",
			Location:          tvf.Location{Latitude: 42.3736, Longitude: -71.1190},
			Kind:              tvf.StopKindStation,
		},
	}
}

func TestNearbyRequiresOrigin(t *testing.T) {
	engine := newOfflineEngine(bostonStops())

	_, err := engine.Nearby(context.Background())
	assert.Error(t, err)
}

func TestNearbyRanksStopsByDistance(t *testing.T) {
	engine := newOfflineEngine(bostonStops())

	// Standing by Park Street
	engine.Origin.SetCustomOrigin(tvf.Location{Latitude: 42.3560, Longitude: -71.0620})

	nearby, err := engine.Nearby(context.Background())
	require.NoError(t, err)

	// Harvard is miles away and outside the radius
	require.Len(t, nearby, 2)
	assert.Equal(t, "place-pktrm", nearby[0].Stop.PrimaryIdentifier)
	assert.Equal(t, "place-dwnxg", nearby[1].Stop.PrimaryIdentifier)
	assert.Less(t, nearby[0].DistanceKm, nearby[1].DistanceKm)

	require.NotNil(t, nearby[0].Walk)
	assert.True(t, nearby[0].Walk.Estimated)
}

func TestNearbyAttachesCloseVehicles(t *testing.T) {
	engine := newOfflineEngine(bostonStops())

	engine.Origin.SetCustomOrigin(tvf.Location{Latitude: 42.3560, Longitude: -71.0620})

	token := engine.Store.CaptureToken([]string{"Red"})
	engine.Store.ReplaceVehicles([]tvf.Vehicle{
		{PrimaryIdentifier: "close", Location: tvf.Location{Latitude: 42.3570, Longitude: -71.0620}},
		{PrimaryIdentifier: "far", Location: tvf.Location{Latitude: 42.4000, Longitude: -71.2000}},
	}, token)

	nearby, err := engine.Nearby(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, nearby)

	require.Len(t, nearby[0].Vehicles, 1)
	assert.Equal(t, "close", nearby[0].Vehicles[0].PrimaryIdentifier)
}

func TestInspectStopUnknown(t *testing.T) {
	engine := newOfflineEngine(nil)

	_, err := engine.InspectStop(context.Background(), "place-ghost")
	assert.Error(t, err)
}

func TestStartRouteSearchWithoutOrigin(t *testing.T) {
	engine := newOfflineEngine(bostonStops())

	_, err := engine.StartRouteSearch(context.Background(), nil, "place-harsq", routing.TravelModeWalk)
	assert.Error(t, err)
}

func TestLookupStopFallsBackToStatic(t *testing.T) {
	engine := newOfflineEngine(bostonStops())

	stop, ok := engine.lookupStop("place-harsq")
	require.True(t, ok)
	assert.Equal(t, "Harvard", stop.Name)

	_, ok = engine.lookupStop("place-ghost")
	assert.False(t, ok)
}

func TestLoadDefinitionsOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "definitions.yaml")

	definitionsYaml := []byte(`kinds:
  bus:
    max_routes: 5
    routes:
      - "1"
      - "66"
`)
	require.NoError(t, os.WriteFile(path, definitionsYaml, 0644))

	definitions, err := LoadDefinitions(path)
	require.NoError(t, err)

	bus := definitions.Kinds[tvf.TransitKindBus]
	assert.Equal(t, 5, bus.MaxRoutes)
	assert.Equal(t, []string{"1", "66"}, bus.Routes)

	// Unmentioned kinds keep their defaults
	rail := definitions.Kinds[tvf.TransitKindRail]
	assert.Equal(t, 12, rail.MaxRoutes)
}

func TestLoadDefinitionsMissingFile(t *testing.T) {
	_, err := LoadDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
