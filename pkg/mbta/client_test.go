package mbta

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitview/transitview/pkg/tvf"
)

func TestBatchRouteFilter(t *testing.T) {
	var routeIDs []string
	for i := 0; i < 33; i++ {
		routeIDs = append(routeIDs, fmt.Sprintf("route-%d", i))
	}

	batches := batchRouteFilter(routeIDs)

	require.Len(t, batches, 3)
	assert.Len(t, strings.Split(batches[0], ","), 15)
	assert.Len(t, strings.Split(batches[1], ","), 15)
	assert.Len(t, strings.Split(batches[2], ","), 3)

	assert.Len(t, batchRouteFilter([]string{"Red"}), 1)
	assert.Empty(t, batchRouteFilter(nil))
}

func TestVehiclesResolvesIncludedResources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vehicles", r.URL.Path)
		assert.Equal(t, "Red", r.URL.Query().Get("filter[route]"))

		fmt.Fprint(w, `{
			"data": [
				{
					"id": "R-5463D359",
					"type": "vehicle",
					"attributes": {
						"latitude": 42.3601,
						"longitude": -71.0589,
						"bearing": 125,
						"current_status": "IN_TRANSIT_TO"
					},
					"relationships": {
						"route": {"data": {"id": "Red", "type": "route"}},
						"trip": {"data": {"id": "trip-1", "type": "trip"}},
						"stop": {"data": {"id": "place-pktrm", "type": "stop"}}
					}
				},
				{
					"id": "R-NOWHERE",
					"type": "vehicle",
					"attributes": {
						"latitude": null,
						"longitude": null
					}
				}
			],
			"included": [
				{"id": "Red", "type": "route", "attributes": {"long_name": "Red Line", "type": 1, "color": "DA291C"}},
				{"id": "trip-1", "type": "trip", "attributes": {"headsign": "Alewife"}},
				{"id": "place-pktrm", "type": "stop", "attributes": {"name": "Park Street"}}
			]
		}`)
	}))
	defer server.Close()

	client := NewClientWithTarget(server.URL, "")

	vehicles := client.Vehicles(context.Background(), []string{"Red"})

	// The positionless vehicle is dropped
	require.Len(t, vehicles, 1)

	vehicle := vehicles[0]
	assert.Equal(t, "R-5463D359", vehicle.PrimaryIdentifier)
	assert.Equal(t, 42.3601, vehicle.Location.Latitude)
	require.NotNil(t, vehicle.Bearing)
	assert.Equal(t, 125.0, *vehicle.Bearing)
	assert.Equal(t, tvf.VehicleStatusInTransitTo, vehicle.Status)
	assert.Equal(t, "Red", vehicle.RouteID)
	assert.Equal(t, "Red Line", vehicle.RouteName)
	assert.Equal(t, "#da291c", vehicle.RouteColour)
	assert.Equal(t, "Alewife", vehicle.TripHeadsign)
	assert.Equal(t, "Park Street", vehicle.CurrentStopName)
}

func TestVehiclesEmptySelectionShortCircuits(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client := NewClientWithTarget(server.URL, "")

	vehicles := client.Vehicles(context.Background(), nil)

	assert.Empty(t, vehicles)
	assert.Equal(t, 0, requests)
}

func TestVehiclesSplitsOversizedFiltersIntoBatches(t *testing.T) {
	var mutex sync.Mutex
	var filters []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		filters = append(filters, r.URL.Query().Get("filter[route]"))
		mutex.Unlock()

		fmt.Fprint(w, `{
			"data": [
				{"id": "v-1", "type": "vehicle", "attributes": {"latitude": 42.0, "longitude": -71.0}}
			]
		}`)
	}))
	defer server.Close()

	client := NewClientWithTarget(server.URL, "")

	var routeIDs []string
	for i := 0; i < 20; i++ {
		routeIDs = append(routeIDs, fmt.Sprintf("route-%d", i))
	}

	vehicles := client.Vehicles(context.Background(), routeIDs)

	assert.Len(t, filters, 2)
	assert.Len(t, vehicles, 2)
}

func TestVehiclesFailedBatchDegrades(t *testing.T) {
	var mutex sync.Mutex
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		requests++
		failing := strings.Contains(r.URL.Query().Get("filter[route]"), "route-0")
		mutex.Unlock()

		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		fmt.Fprint(w, `{
			"data": [
				{"id": "v-1", "type": "vehicle", "attributes": {"latitude": 42.0, "longitude": -71.0}}
			]
		}`)
	}))
	defer server.Close()

	client := NewClientWithTarget(server.URL, "")

	var routeIDs []string
	for i := 0; i < 20; i++ {
		routeIDs = append(routeIDs, fmt.Sprintf("route-%d", i))
	}

	vehicles := client.Vehicles(context.Background(), routeIDs)

	// The failing batch contributes nothing; the other still lands
	assert.Equal(t, 2, requests)
	assert.Len(t, vehicles, 1)
}

func TestRoutesParsesAndDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/routes", r.URL.Path)
		assert.Equal(t, "0,1", r.URL.Query().Get("filter[type]"))

		fmt.Fprint(w, `{
			"data": [
				{
					"id": "Red",
					"type": "route",
					"attributes": {
						"long_name": "Red Line",
						"type": 1,
						"color": "DA291C",
						"text_color": "FFFFFF",
						"direction_names": ["Southbound", "Northbound"]
					}
				},
				{
					"id": "Green-B",
					"type": "route",
					"attributes": {"long_name": "Green Line B", "type": 0}
				}
			]
		}`)
	}))
	defer server.Close()

	client := NewClientWithTarget(server.URL, "")

	routes := client.Routes(context.Background(), tvf.TransitKindSubway)
	require.Len(t, routes, 2)

	red := routes[0]
	assert.Equal(t, "Red Line", red.Name)
	assert.Equal(t, "#da291c", red.Colour)
	assert.Equal(t, "FFFFFF", red.TextColour)
	assert.Equal(t, []string{"Southbound", "Northbound"}, red.DirectionNames)

	// Missing attributes fall back to defaults
	greenB := routes[1]
	assert.Equal(t, "#00843d", greenB.Colour)
	assert.Equal(t, "000000", greenB.TextColour)
	assert.Equal(t, []string{"Outbound", "Inbound"}, greenB.DirectionNames)
}

func TestStopsDedupsByLocationPreferringStations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": [
				{
					"id": "70075",
					"type": "stop",
					"attributes": {"name": "Park Street", "latitude": 42.35639, "longitude": -71.06237, "location_type": 0}
				},
				{
					"id": "place-pktrm",
					"type": "stop",
					"attributes": {"name": "Park Street", "latitude": 42.35639, "longitude": -71.06237, "location_type": 1, "wheelchair_boarding": 1}
				},
				{
					"id": "place-harsq",
					"type": "stop",
					"attributes": {"name": "Harvard", "latitude": 42.37362, "longitude": -71.11895, "location_type": 1}
				}
			]
		}`)
	}))
	defer server.Close()

	client := NewClientWithTarget(server.URL, "")

	stops := client.Stops(context.Background(), []string{"Red"})
	require.Len(t, stops, 2)

	// The station record wins over its child platform at the same spot,
	// keeping first-seen order
	assert.Equal(t, "place-pktrm", stops[0].PrimaryIdentifier)
	assert.Equal(t, tvf.StopKindStation, stops[0].Kind)
	assert.True(t, stops[0].WheelchairAccessible)
	assert.Equal(t, "place-harsq", stops[1].PrimaryIdentifier)
}

func TestClientSendsAPIKey(t *testing.T) {
	var apiKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.URL.Query().Get("api_key")
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client := NewClientWithTarget(server.URL, "secret")
	client.Routes(context.Background(), tvf.TransitKindBus)

	assert.Equal(t, "secret", apiKey)
}
