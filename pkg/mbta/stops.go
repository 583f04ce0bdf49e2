package mbta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sourcegraph/conc/pool"
	"github.com/transitview/transitview/pkg/tvf"
)

// Stops fetches the stops served by the given routes, de-duplicated by
// rounded coordinate with Station kind stops winning over child platforms.
// An empty route set resolves immediately without touching the network
func (c *Client) Stops(ctx context.Context, routeIDs []string) []tvf.Stop {
	if len(routeIDs) == 0 {
		return []tvf.Stop{}
	}

	p := pool.NewWithResults[[]tvf.Stop]()

	for _, batch := range batchRouteFilter(routeIDs) {
		batch := batch

		p.Go(func() []tvf.Stop {
			return c.stopBatch(ctx, batch)
		})
	}

	var stops []tvf.Stop
	for _, batchStops := range p.Wait() {
		stops = append(stops, batchStops...)
	}

	return dedupStopsByLocation(stops)
}

func (c *Client) stopBatch(ctx context.Context, routeFilter string) []tvf.Stop {
	query := url.Values{}
	query.Set("filter[route]", routeFilter)

	responseEnvelope, err := c.get(ctx, "/stops", query)
	if err != nil {
		logFetchFailure("stops", err)
		return nil
	}

	return parseStops(responseEnvelope)
}

// AllStops fetches the complete unfiltered stop set, used by the dataset
// snapshot generator
func (c *Client) AllStops(ctx context.Context) ([]tvf.Stop, error) {
	responseEnvelope, err := c.get(ctx, "/stops", url.Values{})
	if err != nil {
		return nil, err
	}

	return parseStops(responseEnvelope), nil
}

// NearbyStops asks the provider for stops around a point, nearest first
func (c *Client) NearbyStops(ctx context.Context, location tvf.Location, radiusKm float64) []tvf.Stop {
	query := url.Values{}
	query.Set("filter[latitude]", fmt.Sprintf("%f", location.Latitude))
	query.Set("filter[longitude]", fmt.Sprintf("%f", location.Longitude))
	// The provider expresses radius in degrees
	query.Set("filter[radius]", fmt.Sprintf("%f", radiusKm/111.0))
	query.Set("sort", "distance")

	responseEnvelope, err := c.get(ctx, "/stops", query)
	if err != nil {
		logFetchFailure("stops", err)
		return nil
	}

	return parseStops(responseEnvelope)
}

func parseStops(responseEnvelope *envelope) []tvf.Stop {
	var stops []tvf.Stop

	for _, stopResource := range responseEnvelope.Data {
		var attributes stopAttributes
		if err := json.Unmarshal(stopResource.Attributes, &attributes); err != nil {
			continue
		}

		if attributes.Latitude == nil || attributes.Longitude == nil {
			continue
		}

		kind := tvf.StopKindStop
		if attributes.LocationType == 1 {
			kind = tvf.StopKindStation
		}

		stops = append(stops, tvf.Stop{
			PrimaryIdentifier: stopResource.ID,
			Name:              attributes.Name,
			Location: tvf.Location{
				Latitude:  *attributes.Latitude,
				Longitude: *attributes.Longitude,
			},
			Kind:                 kind,
			WheelchairAccessible: attributes.WheelchairBoarding == 1,
			Description:          attributes.Description,
		})
	}

	return stops
}

// Child platforms of a station report near-identical coordinates. Collapse
// them to one marker per location, preferring the parent station record
func dedupStopsByLocation(stops []tvf.Stop) []tvf.Stop {
	byLocation := map[string]tvf.Stop{}
	var order []string

	for _, stop := range stops {
		key := fmt.Sprintf("%.5f,%.5f", stop.Location.Latitude, stop.Location.Longitude)

		existing, seen := byLocation[key]
		if !seen {
			byLocation[key] = stop
			order = append(order, key)
			continue
		}

		if existing.Kind != tvf.StopKindStation && stop.Kind == tvf.StopKindStation {
			byLocation[key] = stop
		}
	}

	deduped := make([]tvf.Stop, 0, len(order))
	for _, key := range order {
		deduped = append(deduped, byLocation[key])
	}

	return deduped
}
