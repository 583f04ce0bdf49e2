// Package livemap assembles the live map engine: the provider client, the
// snapshot store, the mode controller, the vehicle poller, the map session
// and the origin tracker, wired together behind one struct the HTTP layer
// talks to.
package livemap

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/transitview/transitview/pkg/geolocate"
	"github.com/transitview/transitview/pkg/mapsession"
	"github.com/transitview/transitview/pkg/mbta"
	"github.com/transitview/transitview/pkg/modes"
	"github.com/transitview/transitview/pkg/poller"
	"github.com/transitview/transitview/pkg/routing"
	"github.com/transitview/transitview/pkg/shapecache"
	"github.com/transitview/transitview/pkg/snapshot"
	"github.com/transitview/transitview/pkg/stopsdata"
	"github.com/transitview/transitview/pkg/tvf"
	"github.com/transitview/transitview/pkg/util"
	"golang.org/x/exp/slices"
)

const frameInterval = 50 * time.Millisecond

const nearbyStopRadiusKm = 1.0
const nearbyStopLimit = 6
const nearbyVehicleRadiusKm = 0.5
const nearbyVehicleLimit = 3

type Engine struct {
	Client   *mbta.Client
	Store    *snapshot.Store
	Renderer *StateRenderer
	Watcher  *RemoteWatcher

	Controller *modes.Controller
	Poller     *poller.Poller
	Session    *mapsession.Session
	Animator   *mapsession.Animator
	Origin     *geolocate.OriginTracker
	Planner    *geolocate.PathPlanner
	Geocoder   *routing.Geocoder

	// Pre-bundled all-stops snapshot, the fast path for nearby lookups when
	// the asset is present
	staticStops []tvf.Stop
}

func NewEngine() *Engine {
	engine := &Engine{
		Client:   mbta.NewClient(),
		Store:    snapshot.NewStore(),
		Renderer: NewStateRenderer(),
		Watcher:  &RemoteWatcher{},
		Geocoder: routing.NewGeocoder(),
	}

	engine.Animator = mapsession.NewAnimator(nil)
	engine.Session = mapsession.NewSession(engine.Renderer, engine.Animator, poller.DefaultRefreshRate)

	engine.Origin = &geolocate.OriginTracker{
		Watcher: engine.Watcher,
		View:    engine.Session,
	}

	engine.Planner = &geolocate.PathPlanner{
		Router: routing.NewOSRM(),
		View:   engine.Session,
	}

	engine.Controller = modes.NewController(
		engine.Client,
		shapecache.NewShapeCache(engine.Client),
		engine.Store,
		engine.Origin,
	)

	engine.Poller = &poller.Poller{
		VehicleSource: engine.Client,
		AlertSource:   engine.Client,
		Store:         engine.Store,
		Selection:     engine.Controller,
	}

	engine.Controller.OnViewChanged = engine.syncView
	engine.Controller.OnModeChanged = func(mode modes.Mode) {
		go engine.Poller.RefreshAlerts(context.Background())
	}
	engine.Controller.OnFocusStop = engine.Session.FocusStop

	engine.Poller.OnVehiclesApplied = engine.Session.ApplyVehicles

	env := util.GetEnvironmentVariables()

	if path := env["TRANSITVIEW_DEFINITIONS_PATH"]; path != "" {
		definitions, err := LoadDefinitions(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to load mode definitions")
		} else {
			engine.Controller.Definitions = definitions
		}
	}

	if path := env["TRANSITVIEW_STOPS_SNAPSHOT"]; path != "" {
		stops, err := stopsdata.Load(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to load stops snapshot")
		} else {
			log.Info().Int("stops", len(stops)).Msg("Loaded stops snapshot")
			engine.staticStops = stops
		}
	}

	return engine
}

// Start performs the initial load and launches the refresh and animation
// loops. It returns once the loops are running
func (e *Engine) Start(ctx context.Context) {
	e.Controller.Bootstrap(ctx)

	e.Origin.EnableTracking()

	e.Poller.Start()
	go e.Poller.RefreshAlerts(ctx)
	go e.Animator.Run(ctx, frameInterval)

	go func() {
		<-ctx.Done()
		e.Poller.Stop()
		e.Session.Close()
	}()
}

// syncView rebuilds the rendered overlays from the snapshot store after a
// mode or selection transition
func (e *Engine) syncView() {
	e.Session.SetShapes(e.Store.Shapes())
	e.Session.SetStops(e.Store.Stops())
	e.Session.ApplyVehicles(e.Store.Vehicles())
}

// Overlays returns the current rendered frame for the shell to draw
func (e *Engine) Overlays() OverlayState {
	return e.Renderer.Snapshot()
}

// SetHidden pauses polling while the shell's document is hidden and
// resumes (with an immediate catch-up cycle) when it becomes visible again
func (e *Engine) SetHidden(hidden bool) {
	if hidden {
		e.Poller.Pause()
	} else {
		e.Poller.Resume()
	}
}

// Refresh runs one manual vehicle and alert refresh cycle
func (e *Engine) Refresh(ctx context.Context) {
	e.Poller.RefreshVehicles(ctx)
	e.Poller.RefreshAlerts(ctx)
}

// ReportPosition feeds a client geolocation fix into the origin tracker
func (e *Engine) ReportPosition(position geolocate.Position) {
	e.Watcher.Report(position)
}

// StopInspection is the stop popup payload: live predictions plus, when an
// origin is known, a walking estimate to the stop
type StopInspection struct {
	Stop        tvf.Stop          `json:"stop" groups:"basic"`
	Predictions []tvf.Prediction  `json:"predictions" groups:"basic"`
	Walk        *routing.Estimate `json:"walk,omitempty" groups:"basic"`
}

// InspectStop resolves the popup payload for one stop. Predictions and the
// walking estimate load in parallel; a missing origin just means no
// estimate
func (e *Engine) InspectStop(ctx context.Context, stopID string) (*StopInspection, error) {
	stop, ok := e.lookupStop(stopID)
	if !ok {
		return nil, errors.New("unknown stop")
	}

	inspection := &StopInspection{Stop: stop}

	p := pool.New()

	p.Go(func() {
		inspection.Predictions = e.Client.Predictions(ctx, stopID)
	})

	if origin, hasOrigin := e.Origin.Origin(); hasOrigin {
		p.Go(func() {
			estimate := e.walkEstimate(ctx, origin, stop.Location)
			inspection.Walk = &estimate
		})
	}

	p.Wait()

	return inspection, nil
}

// walkEstimate prefers a street-routed walking time, degrading to the
// great-circle estimate when the routing engine has no answer
func (e *Engine) walkEstimate(ctx context.Context, from tvf.Location, to tvf.Location) routing.Estimate {
	if path, found := e.Planner.Router.Route(ctx, routing.TravelModeWalk, from, to); found {
		return routing.EstimateFromPath(path)
	}

	return routing.WalkEstimate(from, to)
}

type NearbyStop struct {
	Stop       tvf.Stop          `json:"stop" groups:"basic"`
	DistanceKm float64           `json:"distance_km" groups:"basic"`
	Walk       *routing.Estimate `json:"walk,omitempty" groups:"basic"`
	Vehicles   []tvf.Vehicle     `json:"vehicles" groups:"basic"`
}

// Nearby finds the closest stops to the active origin, each with the live
// vehicles currently near it. The static snapshot serves the lookup when
// bundled; otherwise the provider's radius search does
func (e *Engine) Nearby(ctx context.Context) ([]NearbyStop, error) {
	origin, hasOrigin := e.Origin.Origin()
	if !hasOrigin {
		return nil, errors.New("no origin available")
	}

	var candidates []tvf.Stop
	if len(e.staticStops) > 0 {
		candidates = e.staticStops
	} else {
		candidates = e.Client.NearbyStops(ctx, origin, nearbyStopRadiusKm)
	}

	type rankedStop struct {
		stop       tvf.Stop
		distanceKm float64
	}

	var ranked []rankedStop
	for _, stop := range candidates {
		distanceKm := origin.DistanceKm(stop.Location)
		if distanceKm > nearbyStopRadiusKm {
			continue
		}

		ranked = append(ranked, rankedStop{stop: stop, distanceKm: distanceKm})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].distanceKm < ranked[j].distanceKm
	})

	if len(ranked) > nearbyStopLimit {
		ranked = ranked[:nearbyStopLimit]
	}

	vehicles := e.Store.Vehicles()

	var nearby []NearbyStop
	for _, candidate := range ranked {
		entry := NearbyStop{
			Stop:       candidate.stop,
			DistanceKm: candidate.distanceKm,
		}

		estimate := e.walkEstimate(ctx, origin, candidate.stop.Location)
		entry.Walk = &estimate

		for _, vehicle := range vehicles {
			if vehicle.Location.DistanceKm(candidate.stop.Location) > nearbyVehicleRadiusKm {
				continue
			}

			entry.Vehicles = append(entry.Vehicles, vehicle)
			if len(entry.Vehicles) == nearbyVehicleLimit {
				break
			}
		}

		nearby = append(nearby, entry)
	}

	return nearby, nil
}

// StartRouteSearch enters RouteSearch mode and draws the animated path
// from the origin to the destination stop, returning the travel estimate.
// A nil origin uses the tracker's active origin
func (e *Engine) StartRouteSearch(ctx context.Context, origin *tvf.Location, destinationStopID string, travelMode routing.TravelMode) (routing.Estimate, error) {
	if origin == nil {
		tracked, hasOrigin := e.Origin.Origin()
		if !hasOrigin {
			return routing.Estimate{}, errors.New("no origin available")
		}
		origin = &tracked
	}

	destination, ok := e.lookupStop(destinationStopID)
	if !ok {
		return routing.Estimate{}, errors.New("unknown destination stop")
	}

	e.Controller.EnterRouteSearch(*origin, destinationStopID, travelMode)

	return e.Planner.ShowRoute(ctx, travelMode, *origin, destination.Location), nil
}

// EndRouteSearch tears the path overlay down and returns to Normal
func (e *Engine) EndRouteSearch() {
	e.Planner.Clear()
	e.Controller.ExitRouteSearch()
}

// lookupStop resolves a stop from the live store first, then the static
// snapshot
func (e *Engine) lookupStop(stopID string) (tvf.Stop, bool) {
	if stop, ok := e.Store.Stop(stopID); ok {
		return stop, true
	}

	if index := slices.IndexFunc(e.staticStops, func(stop tvf.Stop) bool {
		return stop.PrimaryIdentifier == stopID
	}); index >= 0 {
		return e.staticStops[index], true
	}

	return tvf.Stop{}, false
}
