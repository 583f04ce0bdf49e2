package mbta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/transitview/transitview/pkg/tvf"
)

type routeAttributes struct {
	LongName       string   `json:"long_name"`
	ShortName      string   `json:"short_name"`
	Type           int      `json:"type"`
	Colour         string   `json:"color"`
	TextColour     string   `json:"text_color"`
	DirectionNames []string `json:"direction_names"`
}

// Routes fetches every route of the given transit kinds
func (c *Client) Routes(ctx context.Context, kinds ...tvf.TransitKind) []tvf.Route {
	var routeTypes []string
	for _, kind := range kinds {
		for _, routeType := range kind.RouteTypes() {
			routeTypes = append(routeTypes, fmt.Sprint(int(routeType)))
		}
	}

	query := url.Values{}
	if len(routeTypes) > 0 {
		query.Set("filter[type]", strings.Join(routeTypes, ","))
	}

	responseEnvelope, err := c.get(ctx, "/routes", query)
	if err != nil {
		logFetchFailure("routes", err)
		return nil
	}

	var routes []tvf.Route
	for _, routeResource := range responseEnvelope.Data {
		var attributes routeAttributes
		if err := json.Unmarshal(routeResource.Attributes, &attributes); err != nil {
			continue
		}

		routes = append(routes, parseRoute(routeResource.ID, attributes))
	}

	return routes
}

func parseRoute(id string, attributes routeAttributes) tvf.Route {
	routeType := tvf.RouteType(attributes.Type)

	providerColour := normaliseProviderColour(attributes.Colour)

	textColour := attributes.TextColour
	if textColour == "" {
		textColour = "000000"
	}

	directionNames := attributes.DirectionNames
	if len(directionNames) == 0 {
		directionNames = []string{"Outbound", "Inbound"}
	}

	return tvf.Route{
		PrimaryIdentifier: id,
		Name:              attributes.LongName,
		ShortName:         attributes.ShortName,
		Type:              routeType,
		Colour:            tvf.RouteColour(id, routeType, providerColour),
		TextColour:        textColour,
		DirectionNames:    directionNames,
	}
}

// The provider reports colours as bare hex digits
func normaliseProviderColour(colour string) string {
	if colour != "" && !strings.HasPrefix(colour, "#") {
		return "#" + colour
	}

	return colour
}
