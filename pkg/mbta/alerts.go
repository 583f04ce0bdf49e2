package mbta

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/transitview/transitview/pkg/tvf"
)

type alertAttributes struct {
	Header      string `json:"header"`
	ShortHeader string `json:"short_header"`
	Description string `json:"description"`
	Severity    int    `json:"severity"`
	Effect      string `json:"effect"`
}

// Alerts fetches the current rider-facing service alerts
func (c *Client) Alerts(ctx context.Context) []tvf.Alert {
	query := url.Values{}
	query.Set("filter[activity]", "BOARD,EXIT,RIDE")
	query.Set("page[limit]", "10")

	responseEnvelope, err := c.get(ctx, "/alerts", query)
	if err != nil {
		logFetchFailure("alerts", err)
		return nil
	}

	var alerts []tvf.Alert
	for _, alertResource := range responseEnvelope.Data {
		var attributes alertAttributes
		if err := json.Unmarshal(alertResource.Attributes, &attributes); err != nil {
			continue
		}

		header := attributes.Header
		if header == "" {
			header = "Service Alert"
		}

		description := attributes.ShortHeader
		if description == "" {
			description = attributes.Description
		}
		if description == "" {
			description = "Check MBTA.com for details"
		}

		alerts = append(alerts, tvf.Alert{
			PrimaryIdentifier: alertResource.ID,
			Header:            header,
			Description:       description,
			Severity:          attributes.Severity,
			Effect:            attributes.Effect,
		})
	}

	return alerts
}
