// Package mapsession is the map reconciliation engine: it keeps a 1:1
// correspondence between the latest snapshot sets and the rendered overlay
// handles. Shapes and stops are torn down and rebuilt wholesale (they only
// change on mode transitions); vehicles are patched incrementally every
// poll with interpolated motion, because a full rebuild every second would
// flicker.
package mapsession

import (
	"math"
	"sync"
	"time"

	"github.com/transitview/transitview/pkg/tvf"
)

type zoomBand int

const (
	bandLinesOnly zoomBand = iota
	bandLinesAndStops
	bandEverything
)

func bandForZoom(zoom int) zoomBand {
	switch {
	case zoom < 10:
		return bandLinesOnly
	case zoom < 12:
		return bandLinesAndStops
	default:
		return bandEverything
	}
}

const defaultZoom = 12

// Fraction of the routed path lit up by the flowing segment, and how long
// one full sweep takes
const flowWindowFraction = 0.25
const flowPeriod = 2 * time.Second

type vehicleOverlay struct {
	ref MarkerRef

	// Last coordinate/bearing actually pushed to the renderer - the
	// animation origin for the next update
	renderedLocation tvf.Location
	renderedBearing  float64
	hasBearing       bool

	task       TaskID
	taskActive bool
}

type stopOverlay struct {
	ref  MarkerRef
	stop tvf.Stop
}

type Session struct {
	mutex sync.Mutex

	renderer Renderer
	animator *Animator

	// Duration of one vehicle motion animation, matched to the poll
	// interval
	motionDuration time.Duration

	vehicles map[string]*vehicleOverlay
	stops    map[string]stopOverlay
	shapes   []OverlayRef

	originRef  *MarkerRef
	originKind MarkerKind

	pathRef  *OverlayRef
	pathTask TaskID

	followedVehicleID string

	zoom int
}

func NewSession(renderer Renderer, animator *Animator, motionDuration time.Duration) *Session {
	if motionDuration == 0 {
		motionDuration = time.Second
	}

	return &Session{
		renderer:       renderer,
		animator:       animator,
		motionDuration: motionDuration,
		vehicles:       map[string]*vehicleOverlay{},
		stops:          map[string]stopOverlay{},
		zoom:           defaultZoom,
	}
}

// ApplyVehicles reconciles the rendered vehicle markers against the latest
// poll result: new IDs get a marker, persisting IDs keep their marker and
// animate to the new position, vanished IDs are removed immediately -
// only on-screen motion is smoothed, never disappearance
func (s *Session) ApplyVehicles(vehicles []tvf.Vehicle) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	active := map[string]bool{}
	for _, vehicle := range vehicles {
		active[vehicle.PrimaryIdentifier] = true
	}

	for id, overlay := range s.vehicles {
		if active[id] {
			continue
		}

		if overlay.taskActive {
			s.animator.Cancel(overlay.task)
		}
		s.renderer.RemoveMarker(overlay.ref)
		delete(s.vehicles, id)
	}

	for _, vehicle := range vehicles {
		if overlay, exists := s.vehicles[vehicle.PrimaryIdentifier]; exists {
			s.moveVehicleLocked(vehicle.PrimaryIdentifier, overlay, vehicle)
		} else {
			s.addVehicleLocked(vehicle)
		}
	}
}

func (s *Session) addVehicleLocked(vehicle tvf.Vehicle) {
	zIndex := ZIndexVehicle
	if vehicle.PrimaryIdentifier == s.followedVehicleID {
		zIndex = ZIndexFollowedVehicle
	}

	ref := s.renderer.AddMarker(MarkerSpec{
		Kind:     MarkerKindVehicle,
		Location: vehicle.Location,
		Bearing:  vehicle.Bearing,
		Colour:   vehicle.RouteColour,
		ZIndex:   zIndex,
	})

	overlay := &vehicleOverlay{
		ref:              ref,
		renderedLocation: vehicle.Location,
	}
	if vehicle.Bearing != nil {
		overlay.renderedBearing = *vehicle.Bearing
		overlay.hasBearing = true
	}

	s.vehicles[vehicle.PrimaryIdentifier] = overlay

	s.renderer.SetMarkerVisible(ref, bandForZoom(s.zoom) >= bandEverything)
}

// moveVehicleLocked retargets a persisting marker: the previous animation
// is cancelled and a fresh interpolation runs from wherever the marker was
// last rendered to the new position
func (s *Session) moveVehicleLocked(id string, overlay *vehicleOverlay, vehicle tvf.Vehicle) {
	if overlay.taskActive {
		s.animator.Cancel(overlay.task)
	}

	from := overlay.renderedLocation
	to := vehicle.Location

	fromBearing := overlay.renderedBearing
	var toBearing float64
	rotate := false
	if vehicle.Bearing != nil {
		toBearing = *vehicle.Bearing
		rotate = true
		if !overlay.hasBearing {
			fromBearing = toBearing
		}
	}

	task := s.animator.Animate(s.motionDuration, EaseInOut, func(progress float64) {
		s.mutex.Lock()

		current, exists := s.vehicles[id]
		if !exists || current.ref != overlay.ref {
			s.mutex.Unlock()
			return
		}

		location := from.InterpolateTo(to, progress)
		current.renderedLocation = location

		var bearing float64
		if rotate {
			bearing = interpolateBearing(fromBearing, toBearing, progress)
			current.renderedBearing = bearing
			current.hasBearing = true
		}

		ref := current.ref
		s.mutex.Unlock()

		s.renderer.MoveMarker(ref, location)
		if rotate {
			s.renderer.RotateMarker(ref, bearing)
		}
	})

	overlay.task = task
	overlay.taskActive = true
}

// interpolateBearing rotates the short way round the compass
func interpolateBearing(from float64, to float64, t float64) float64 {
	delta := math.Mod(to-from+540, 360) - 180

	bearing := math.Mod(from+delta*t, 360)
	if bearing < 0 {
		bearing += 360
	}

	return bearing
}

// SetStops tears down and rebuilds every stop marker. Stops only change on
// mode transitions so the rebuild cost is irrelevant
func (s *Session) SetStops(stops []tvf.Stop) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, overlay := range s.stops {
		s.renderer.RemoveMarker(overlay.ref)
	}
	s.stops = map[string]stopOverlay{}

	visible := bandForZoom(s.zoom) >= bandLinesAndStops

	for _, stop := range stops {
		ref := s.renderer.AddMarker(MarkerSpec{
			Kind:     MarkerKindStop,
			Location: stop.Location,
			Label:    stop.Name,
			ZIndex:   ZIndexStop,
		})

		s.renderer.SetMarkerVisible(ref, visible)

		s.stops[stop.PrimaryIdentifier] = stopOverlay{ref: ref, stop: stop}
	}
}

// SetShapes tears down and rebuilds the route line overlays - one grouped
// overlay per route, one polyline per disjoint branch
func (s *Session) SetShapes(shapes []tvf.RouteShape) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, ref := range s.shapes {
		s.renderer.RemoveOverlay(ref)
	}
	s.shapes = nil

	for _, shape := range shapes {
		var group PolylineGroupSpec
		for _, branch := range shape.Polylines {
			group.Polylines = append(group.Polylines, PolylineSpec{
				Points:  branch,
				Colour:  shape.Colour,
				Weight:  5,
				Opacity: 0.7,
			})
		}

		s.shapes = append(s.shapes, s.renderer.AddPolylineGroup(group))
	}
}

// FollowVehicle raises one vehicle above all others in the stacking order.
// An empty ID clears the follow
func (s *Session) FollowVehicle(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if previous, exists := s.vehicles[s.followedVehicleID]; exists {
		s.renderer.SetMarkerZIndex(previous.ref, ZIndexVehicle)
	}

	s.followedVehicleID = id

	if overlay, exists := s.vehicles[id]; exists {
		s.renderer.SetMarkerZIndex(overlay.ref, ZIndexFollowedVehicle)
	}
}

// SetZoom recomputes overlay density for the new zoom band. Runs on every
// zoom change event, never on a timer
func (s *Session) SetZoom(zoom int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if bandForZoom(zoom) == bandForZoom(s.zoom) {
		s.zoom = zoom
		return
	}

	s.zoom = zoom
	band := bandForZoom(zoom)

	for _, overlay := range s.stops {
		s.renderer.SetMarkerVisible(overlay.ref, band >= bandLinesAndStops)
	}

	for _, overlay := range s.vehicles {
		s.renderer.SetMarkerVisible(overlay.ref, band >= bandEverything)
	}
}

// FocusStop flies the viewport to a stop, used by the StopBrowse settle
// signal
func (s *Session) FocusStop(stop tvf.Stop) {
	s.renderer.FlyTo(stop.Location, 16)
}

// SetOrigin places or moves the single user/origin marker. GPS fixes and
// custom origins render with distinguishable styles
func (s *Session) SetOrigin(location tvf.Location, custom bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	kind := MarkerKindOriginGPS
	if custom {
		kind = MarkerKindOriginCustom
	}

	if s.originRef != nil && s.originKind == kind {
		s.renderer.MoveMarker(*s.originRef, location)
		return
	}

	if s.originRef != nil {
		s.renderer.RemoveMarker(*s.originRef)
	}

	ref := s.renderer.AddMarker(MarkerSpec{
		Kind:     kind,
		Location: location,
		ZIndex:   ZIndexOrigin,
	})

	s.originRef = &ref
	s.originKind = kind
}

func (s *Session) ClearOrigin() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.originRef != nil {
		s.renderer.RemoveMarker(*s.originRef)
		s.originRef = nil
	}
}

// FlyTo pans the viewport, e.g. on the first GPS fix
func (s *Session) FlyTo(location tvf.Location, zoom int) {
	s.renderer.FlyTo(location, zoom)
}

// ShowFlowPath renders a routed path as a faint full line plus a bright
// segment that sweeps along it forever to communicate direction. Any
// previous path overlay and its animation are torn down first
func (s *Session) ShowFlowPath(path []tvf.Location, colour string) {
	s.ClearFlowPath()

	if len(path) < 2 {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	ref := s.renderer.AddPolylineGroup(PolylineGroupSpec{
		Polylines: []PolylineSpec{
			{Points: path, Colour: colour, Weight: 4, Opacity: 0.35},
			{Points: pathWindow(path, 0, flowWindowFraction), Colour: colour, Weight: 5, Opacity: 0.9},
		},
	})

	s.pathRef = &ref

	s.pathTask = s.animator.Loop(flowPeriod, func(cycle float64) {
		s.mutex.Lock()

		if s.pathRef == nil || *s.pathRef != ref {
			s.mutex.Unlock()
			return
		}
		s.mutex.Unlock()

		s.renderer.SetPolylinePoints(ref, 1, pathWindow(path, cycle, flowWindowFraction))
	})
}

// ClearFlowPath is idempotent
func (s *Session) ClearFlowPath() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.pathRef == nil {
		return
	}

	s.animator.Cancel(s.pathTask)
	s.renderer.RemoveOverlay(*s.pathRef)
	s.pathRef = nil
}

// pathWindow cuts the sweep segment out of the path at cycle position t,
// interpolating fractionally between vertices so motion stays smooth at
// any frame rate
func pathWindow(path []tvf.Location, t float64, fraction float64) []tvf.Location {
	total := float64(len(path) - 1)

	start := t * total
	end := start + fraction*total
	if end > total {
		end = total
	}

	window := []tvf.Location{pointAlong(path, start)}

	for i := int(math.Floor(start)) + 1; float64(i) < end; i++ {
		window = append(window, path[i])
	}

	window = append(window, pointAlong(path, end))

	return window
}

func pointAlong(path []tvf.Location, position float64) tvf.Location {
	index := int(math.Floor(position))
	if index >= len(path)-1 {
		return path[len(path)-1]
	}

	return path[index].InterpolateTo(path[index+1], position-float64(index))
}

// Close tears down every overlay the session owns
func (s *Session) Close() {
	s.ClearFlowPath()
	s.ClearOrigin()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, overlay := range s.vehicles {
		if overlay.taskActive {
			s.animator.Cancel(overlay.task)
		}
		s.renderer.RemoveMarker(overlay.ref)
		delete(s.vehicles, id)
	}

	for id, overlay := range s.stops {
		s.renderer.RemoveMarker(overlay.ref)
		delete(s.stops, id)
	}

	for _, ref := range s.shapes {
		s.renderer.RemoveOverlay(ref)
	}
	s.shapes = nil
}
