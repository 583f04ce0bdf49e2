// Package snapshot owns the current-known sets of routes, vehicles, stops,
// alerts and route shapes. Entities persist until a fetch cycle explicitly
// replaces or removes them - there is no TTL.
package snapshot

import (
	"sync"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/tvf"
)

// Token is the immutable context captured when a refresh is dispatched. A
// replace carrying a token from an older generation is discarded - a slow
// response must never roll the store back behind a newer mode/selection
type Token struct {
	Generation uint64
	RouteIDs   []string
}

type Store struct {
	mutex sync.RWMutex

	generation uint64

	routes   map[string]tvf.Route
	vehicles map[string]tvf.Vehicle
	stops    map[string]tvf.Stop
	alerts   map[string]tvf.Alert
	shapes   map[string]tvf.RouteShape
}

func NewStore() *Store {
	return &Store{
		routes:   map[string]tvf.Route{},
		vehicles: map[string]tvf.Vehicle{},
		stops:    map[string]tvf.Stop{},
		alerts:   map[string]tvf.Alert{},
		shapes:   map[string]tvf.RouteShape{},
	}
}

// CaptureToken snapshots the store generation and the selection a refresh
// is being dispatched for
func (s *Store) CaptureToken(routeIDs []string) Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	token := Token{Generation: s.generation}
	token.RouteIDs = append(token.RouteIDs, routeIDs...)

	return token
}

// Invalidate bumps the generation, orphaning every in-flight token. Called
// on any mode or selection transition
func (s *Store) Invalidate() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.generation++
}

func (s *Store) current(token Token) bool {
	if token.Generation != s.generation {
		log.Debug().
			Uint64("token", token.Generation).
			Uint64("current", s.generation).
			Msg("Discarding stale refresh result")
		return false
	}

	return true
}

// ReplaceVehicles swaps the whole vehicle set for the given token's
// selection. Returns false when the token is stale and nothing was applied
func (s *Store) ReplaceVehicles(vehicles []tvf.Vehicle, token Token) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.current(token) {
		return false
	}

	s.vehicles = map[string]tvf.Vehicle{}
	for _, vehicle := range vehicles {
		s.vehicles[vehicle.PrimaryIdentifier] = vehicle
	}

	return true
}

func (s *Store) ReplaceStops(stops []tvf.Stop, token Token) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.current(token) {
		return false
	}

	s.stops = map[string]tvf.Stop{}
	for _, stop := range stops {
		s.stops[stop.PrimaryIdentifier] = stop
	}

	return true
}

// PutShape stores one decoded route shape under the token's generation
func (s *Store) PutShape(shape tvf.RouteShape, token Token) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.current(token) {
		return false
	}

	s.shapes[shape.RouteID] = shape

	return true
}

// ReplaceShapes swaps the whole shape set, dropping shapes for routes no
// longer selected
func (s *Store) ReplaceShapes(shapes []tvf.RouteShape, token Token) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.current(token) {
		return false
	}

	s.shapes = map[string]tvf.RouteShape{}
	for _, shape := range shapes {
		s.shapes[shape.RouteID] = shape
	}

	return true
}

func (s *Store) ReplaceRoutes(routes []tvf.Route) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.routes = map[string]tvf.Route{}
	for _, route := range routes {
		s.routes[route.PrimaryIdentifier] = route
	}
}

func (s *Store) ReplaceAlerts(alerts []tvf.Alert) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.alerts = map[string]tvf.Alert{}
	for _, alert := range alerts {
		s.alerts[alert.PrimaryIdentifier] = alert
	}
}

func (s *Store) UpsertVehicles(vehicles []tvf.Vehicle, token Token) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.current(token) {
		return false
	}

	for _, vehicle := range vehicles {
		s.vehicles[vehicle.PrimaryIdentifier] = vehicle
	}

	return true
}

func (s *Store) RemoveVehicles(ids []string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, id := range ids {
		delete(s.vehicles, id)
	}
}

// ClearOverlaySets drops vehicles, stops and shapes together. Every
// non-Normal mode entry and every transit kind change runs this before
// repopulating so a stale overlay is never rendered under the new mode
func (s *Store) ClearOverlaySets() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.generation++
	s.vehicles = map[string]tvf.Vehicle{}
	s.stops = map[string]tvf.Stop{}
	s.shapes = map[string]tvf.RouteShape{}
}

func (s *Store) Vehicles() []tvf.Vehicle {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	vehicles := make([]tvf.Vehicle, 0, len(s.vehicles))
	for _, vehicle := range s.vehicles {
		var copied tvf.Vehicle
		copier.Copy(&copied, &vehicle)
		vehicles = append(vehicles, copied)
	}

	return vehicles
}

func (s *Store) Stops() []tvf.Stop {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stops := make([]tvf.Stop, 0, len(s.stops))
	for _, stop := range s.stops {
		var copied tvf.Stop
		copier.Copy(&copied, &stop)
		stops = append(stops, copied)
	}

	return stops
}

func (s *Store) Routes() []tvf.Route {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	routes := make([]tvf.Route, 0, len(s.routes))
	for _, route := range s.routes {
		var copied tvf.Route
		copier.Copy(&copied, &route)
		routes = append(routes, copied)
	}

	return routes
}

func (s *Store) Alerts() []tvf.Alert {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	alerts := make([]tvf.Alert, 0, len(s.alerts))
	for _, alert := range s.alerts {
		alerts = append(alerts, alert)
	}

	return alerts
}

func (s *Store) Shapes() []tvf.RouteShape {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	shapes := make([]tvf.RouteShape, 0, len(s.shapes))
	for _, shape := range s.shapes {
		var copied tvf.RouteShape
		copier.Copy(&copied, &shape)
		shapes = append(shapes, copied)
	}

	return shapes
}

func (s *Store) Route(id string) (tvf.Route, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	route, ok := s.routes[id]
	return route, ok
}

func (s *Store) Stop(id string) (tvf.Stop, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stop, ok := s.stops[id]
	return stop, ok
}
