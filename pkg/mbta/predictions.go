package mbta

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/transitview/transitview/pkg/tvf"
)

type predictionAttributes struct {
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	DirectionID   int    `json:"direction_id"`
	Status        string `json:"status"`
}

// Predictions fetches upcoming arrivals/departures for a stop, soonest
// first. Predictions carrying neither time are dropped
func (c *Client) Predictions(ctx context.Context, stopID string) []tvf.Prediction {
	query := url.Values{}
	query.Set("filter[stop]", stopID)
	query.Set("include", "route,trip")
	query.Set("sort", "arrival_time")
	query.Set("page[limit]", "20")

	responseEnvelope, err := c.get(ctx, "/predictions", query)
	if err != nil {
		logFetchFailure("predictions", err)
		return nil
	}

	included := responseEnvelope.includedSet()

	var predictions []tvf.Prediction
	for _, predictionResource := range responseEnvelope.Data {
		var attributes predictionAttributes
		if err := json.Unmarshal(predictionResource.Attributes, &attributes); err != nil {
			continue
		}

		arrivalTime := parsePredictionTime(attributes.ArrivalTime)
		departureTime := parsePredictionTime(attributes.DepartureTime)

		if arrivalTime == nil && departureTime == nil {
			continue
		}

		prediction := tvf.Prediction{
			PrimaryIdentifier: predictionResource.ID,
			StopID:            stopID,
			ArrivalTime:       arrivalTime,
			DepartureTime:     departureTime,
			DirectionID:       attributes.DirectionID,
			Status:            attributes.Status,
			Headsign:          "Unknown Destination",
		}

		routeID := predictionResource.relatedID("route")
		var route routeAttributes
		if included.find("route", routeID, &route) {
			prediction.RouteID = routeID
			prediction.RouteShortName = route.ShortName
			prediction.RouteColour = tvf.RouteColour(routeID, tvf.RouteType(route.Type), normaliseProviderColour(route.Colour))

			prediction.DirectionNames = route.DirectionNames
			if len(prediction.DirectionNames) == 0 {
				prediction.DirectionNames = []string{"Outbound", "Inbound"}
			}
		}

		var trip tripAttributes
		if included.find("trip", predictionResource.relatedID("trip"), &trip) && trip.Headsign != "" {
			prediction.Headsign = trip.Headsign
		}

		predictions = append(predictions, prediction)
	}

	return predictions
}

func parsePredictionTime(value string) *time.Time {
	if value == "" {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}

	return &parsed
}
