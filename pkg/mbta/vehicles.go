package mbta

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/sourcegraph/conc/pool"
	"github.com/transitview/transitview/pkg/tvf"
)

type vehicleAttributes struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Bearing       *float64 `json:"bearing"`
	Speed         *float64 `json:"speed"`
	CurrentStatus string   `json:"current_status"`
}

type tripAttributes struct {
	Headsign string `json:"headsign"`
}

type stopAttributes struct {
	Name               string   `json:"name"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	LocationType       int      `json:"location_type"`
	WheelchairBoarding int      `json:"wheelchair_boarding"`
	Description        string   `json:"description"`
}

// Vehicles fetches the live positions of every vehicle on the given routes.
// An empty route set resolves immediately without touching the network.
// Oversized filters are split into parallel batches - a failed batch
// contributes nothing rather than failing the whole call
func (c *Client) Vehicles(ctx context.Context, routeIDs []string) []tvf.Vehicle {
	if len(routeIDs) == 0 {
		return []tvf.Vehicle{}
	}

	p := pool.NewWithResults[[]tvf.Vehicle]()

	for _, batch := range batchRouteFilter(routeIDs) {
		batch := batch

		p.Go(func() []tvf.Vehicle {
			return c.vehicleBatch(ctx, batch)
		})
	}

	var vehicles []tvf.Vehicle
	for _, batchVehicles := range p.Wait() {
		vehicles = append(vehicles, batchVehicles...)
	}

	return vehicles
}

func (c *Client) vehicleBatch(ctx context.Context, routeFilter string) []tvf.Vehicle {
	query := url.Values{}
	query.Set("filter[route]", routeFilter)
	query.Set("include", "trip,stop,route")

	responseEnvelope, err := c.get(ctx, "/vehicles", query)
	if err != nil {
		logFetchFailure("vehicles", err)
		return nil
	}

	included := responseEnvelope.includedSet()

	var vehicles []tvf.Vehicle
	for _, vehicleResource := range responseEnvelope.Data {
		var attributes vehicleAttributes
		if err := json.Unmarshal(vehicleResource.Attributes, &attributes); err != nil {
			continue
		}

		// Vehicles without a position cannot be placed on the map
		if attributes.Latitude == nil || attributes.Longitude == nil {
			continue
		}

		vehicle := tvf.Vehicle{
			PrimaryIdentifier: vehicleResource.ID,
			Location: tvf.Location{
				Latitude:  *attributes.Latitude,
				Longitude: *attributes.Longitude,
			},
			Bearing: attributes.Bearing,
			Speed:   attributes.Speed,
			Status:  tvf.VehicleStatus(attributes.CurrentStatus),
		}

		routeID := vehicleResource.relatedID("route")
		var route routeAttributes
		if included.find("route", routeID, &route) {
			vehicle.RouteID = routeID
			vehicle.RouteName = route.LongName
			vehicle.RouteColour = tvf.RouteColour(routeID, tvf.RouteType(route.Type), normaliseProviderColour(route.Colour))
		}

		var trip tripAttributes
		if included.find("trip", vehicleResource.relatedID("trip"), &trip) {
			vehicle.TripHeadsign = trip.Headsign
		}

		var stop stopAttributes
		if included.find("stop", vehicleResource.relatedID("stop"), &stop) {
			vehicle.CurrentStopName = stop.Name
		}

		vehicles = append(vehicles, vehicle)
	}

	return vehicles
}
