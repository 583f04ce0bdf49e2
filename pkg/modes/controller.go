// Package modes governs which interaction context is active - Normal,
// RouteSearch, StopBrowse or NearbySearch - and owns the selected route
// set, the single source of truth for what gets polled and displayed.
package modes

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/transitview/transitview/pkg/routing"
	"github.com/transitview/transitview/pkg/snapshot"
	"github.com/transitview/transitview/pkg/tvf"
	"golang.org/x/exp/slices"
)

type DataSource interface {
	Routes(ctx context.Context, kinds ...tvf.TransitKind) []tvf.Route
	Stops(ctx context.Context, routeIDs []string) []tvf.Stop
}

// ShapeLoader resolves a route's decoded shape, normally through the
// session shape cache
type ShapeLoader interface {
	RouteShape(ctx context.Context, routeID string) *tvf.RouteShape
}

// LocationControl lets mode transitions switch live GPS tracking on and
// off and drop any captured map-click origin
type LocationControl interface {
	EnableTracking()
	DisableTracking()
	ClearCustomOrigin()
}

// Delay between entering StopBrowse and emitting the focus signal, giving
// the rebuilt overlays time to mount
const defaultSettleDelay = 400 * time.Millisecond

type Controller struct {
	Data   DataSource
	Shapes ShapeLoader
	Store  *snapshot.Store

	Location LocationControl

	Definitions Definitions

	SettleDelay time.Duration

	// Fired whenever overlay-relevant state changed and the view should
	// re-sync from the store
	OnViewChanged func()

	// Fired on every completed mode transition
	OnModeChanged func(Mode)

	// The deferred "fly to this stop" signal from a StopBrowse entry
	OnFocusStop func(tvf.Stop)

	mutex    sync.Mutex
	mode     Mode
	selected []string
}

func NewController(data DataSource, shapes ShapeLoader, store *snapshot.Store, location LocationControl) *Controller {
	return &Controller{
		Data:        data,
		Shapes:      shapes,
		Store:       store,
		Location:    location,
		Definitions: DefaultDefinitions(),
		SettleDelay: defaultSettleDelay,
		mode:        Mode{Kind: ModeNormal, TransitKind: tvf.TransitKindSubway},
	}
}

func (c *Controller) Mode() Mode {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.mode
}

// SelectedRouteIDs implements the poller's selection source
func (c *Controller) SelectedRouteIDs() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return slices.Clone(c.selected)
}

// Bootstrap performs the initial Normal-mode load for the default transit
// kind
func (c *Controller) Bootstrap(ctx context.Context) {
	c.SetTransitKind(ctx, c.Mode().TransitKind)
}

// SetTransitKind switches the Normal-mode transit kind. Overlay sets are
// cleared synchronously before the new fetch cycle starts so a frame of
// stale-kind overlays is never rendered
func (c *Controller) SetTransitKind(ctx context.Context, kind tvf.TransitKind) {
	c.mutex.Lock()
	if c.mode.Kind != ModeNormal {
		c.mutex.Unlock()
		log.Warn().Str("kind", string(kind)).Msg("Ignoring transit kind change outside Normal mode")
		return
	}
	c.mode.TransitKind = kind
	c.mutex.Unlock()

	c.Store.ClearOverlaySets()
	c.notifyView()

	routes := c.Data.Routes(ctx, kind)
	c.Store.ReplaceRoutes(routes)

	curated := c.Definitions.Curate(kind, routes)

	var routeIDs []string
	for _, route := range curated {
		routeIDs = append(routeIDs, route.PrimaryIdentifier)
	}

	c.mutex.Lock()
	c.selected = routeIDs
	c.mutex.Unlock()

	c.reloadSelection(ctx)
	c.notifyMode()
}

// ToggleRoute flips one route in or out of the selection (explicit user
// toggle, Normal mode)
func (c *Controller) ToggleRoute(ctx context.Context, routeID string) {
	c.mutex.Lock()
	if index := slices.Index(c.selected, routeID); index >= 0 {
		c.selected = slices.Delete(c.selected, index, index+1)
	} else {
		c.selected = append(c.selected, routeID)
	}
	c.mutex.Unlock()

	c.Store.Invalidate()
	c.reloadSelection(ctx)
}

// EnterStopBrowse narrows the map to a single route and focuses one stop.
// If NearbySearch is active it is exited first - at most one of the two is
// ever active
func (c *Controller) EnterStopBrowse(ctx context.Context, routeID string, stopID string, directionID int) {
	if c.Mode().Kind == ModeNearbySearch {
		c.ExitNearbySearch()
	}

	c.mutex.Lock()
	c.mode = Mode{
		Kind:        ModeStopBrowse,
		TransitKind: c.mode.TransitKind,
		RouteID:     routeID,
		StopID:      stopID,
		DirectionID: directionID,
	}
	c.selected = []string{routeID}
	c.mutex.Unlock()

	c.Store.ClearOverlaySets()
	c.Location.DisableTracking()
	c.notifyView()

	c.reloadSelection(ctx)
	c.notifyMode()

	if c.OnFocusStop == nil {
		return
	}

	settleDelay := c.SettleDelay
	time.AfterFunc(settleDelay, func() {
		// The browsed stop may not be in the rebuilt set if its fetch
		// failed - degrade to no focus rather than blocking
		if stop, ok := c.Store.Stop(stopID); ok {
			c.OnFocusStop(stop)
		}
	})
}

// ExitStopBrowse returns to Normal, restoring the full selection for the
// current transit kind
func (c *Controller) ExitStopBrowse(ctx context.Context) {
	c.mutex.Lock()
	if c.mode.Kind != ModeStopBrowse {
		c.mutex.Unlock()
		return
	}
	kind := c.mode.TransitKind
	c.mode = Mode{Kind: ModeNormal, TransitKind: kind}
	c.mutex.Unlock()

	c.Location.EnableTracking()
	c.SetTransitKind(ctx, kind)
}

// EnterNearbySearch captures the nearby panel opening. The route selection
// is untouched; only the origin source changes
func (c *Controller) EnterNearbySearch(originKind OriginKind) {
	if c.Mode().Kind == ModeStopBrowse {
		c.ExitStopBrowse(context.Background())
	}

	c.mutex.Lock()
	c.mode = Mode{
		Kind:        ModeNearbySearch,
		TransitKind: c.mode.TransitKind,
		OriginKind:  originKind,
	}
	c.mutex.Unlock()

	c.notifyMode()
}

func (c *Controller) ExitNearbySearch() {
	c.mutex.Lock()
	if c.mode.Kind != ModeNearbySearch {
		c.mutex.Unlock()
		return
	}
	c.mode = Mode{Kind: ModeNormal, TransitKind: c.mode.TransitKind}
	c.mutex.Unlock()

	c.Location.ClearCustomOrigin()
	c.Location.EnableTracking()
	c.notifyMode()
}

// EnterRouteSearch starts an origin to destination-stop search. No
// selection change; GPS tracking is handed over to the custom origin
func (c *Controller) EnterRouteSearch(origin tvf.Location, destinationStopID string, travelMode routing.TravelMode) {
	c.mutex.Lock()
	c.mode = Mode{
		Kind:              ModeRouteSearch,
		TransitKind:       c.mode.TransitKind,
		Origin:            &origin,
		DestinationStopID: destinationStopID,
		TravelMode:        travelMode,
	}
	c.mutex.Unlock()

	c.Location.DisableTracking()
	c.notifyMode()
}

func (c *Controller) ExitRouteSearch() {
	c.mutex.Lock()
	if c.mode.Kind != ModeRouteSearch {
		c.mutex.Unlock()
		return
	}
	c.mode = Mode{Kind: ModeNormal, TransitKind: c.mode.TransitKind}
	c.mutex.Unlock()

	c.Location.EnableTracking()
	c.notifyMode()
}

// reloadSelection fetches stops and shapes for the current selection.
// Shapes load in parallel; any individual failure degrades to that overlay
// simply not appearing
func (c *Controller) reloadSelection(ctx context.Context) {
	routeIDs := c.SelectedRouteIDs()

	token := c.Store.CaptureToken(routeIDs)

	stops := c.Data.Stops(ctx, routeIDs)
	c.Store.ReplaceStops(stops, token)

	p := pool.NewWithResults[*tvf.RouteShape]()
	for _, routeID := range routeIDs {
		routeID := routeID

		p.Go(func() *tvf.RouteShape {
			return c.Shapes.RouteShape(ctx, routeID)
		})
	}

	var shapes []tvf.RouteShape
	for _, shape := range p.Wait() {
		if shape.Empty() {
			continue
		}

		// The data layer only knows the override colour table; the fetched
		// route record knows better
		if route, ok := c.Store.Route(shape.RouteID); ok {
			shape.Colour = route.Colour
		}

		shapes = append(shapes, *shape)
	}
	c.Store.ReplaceShapes(shapes, token)

	c.notifyView()
}

func (c *Controller) notifyView() {
	if c.OnViewChanged != nil {
		c.OnViewChanged()
	}
}

func (c *Controller) notifyMode() {
	if c.OnModeChanged != nil {
		c.OnModeChanged(c.Mode())
	}
}
