package mbta

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/polyline"
	"github.com/transitview/transitview/pkg/tvf"
)

type shapeAttributes struct {
	Polyline string `json:"polyline"`
}

// RouteShape fetches and decodes the geographic path of a single route.
// Returns nil when the provider has no shape for the route
func (c *Client) RouteShape(ctx context.Context, routeID string) *tvf.RouteShape {
	query := url.Values{}
	query.Set("filter[route]", routeID)

	responseEnvelope, err := c.get(ctx, "/shapes", query)
	if err != nil {
		logFetchFailure("shapes", err)
		return nil
	}

	if len(responseEnvelope.Data) == 0 {
		return nil
	}

	shape := &tvf.RouteShape{
		RouteID: routeID,
		Colour:  tvf.RouteColour(routeID, tvf.RouteTypeLightRail, ""),
	}

	for _, shapeResource := range responseEnvelope.Data {
		var attributes shapeAttributes
		if err := json.Unmarshal(shapeResource.Attributes, &attributes); err != nil {
			continue
		}

		if attributes.Polyline == "" {
			continue
		}

		coordinates, err := polyline.Decode(attributes.Polyline)
		if err != nil {
			log.Error().Err(err).Str("shape", shapeResource.ID).Msg("Failed decoding shape polyline")
			continue
		}

		if len(coordinates) > 0 {
			shape.Polylines = append(shape.Polylines, coordinates)
		}
	}

	if shape.Empty() {
		return nil
	}

	return shape
}
