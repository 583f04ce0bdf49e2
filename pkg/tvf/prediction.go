package tvf

import "time"

// Prediction is a forecast arrival/departure of a vehicle at a stop. At
// least one of ArrivalTime and DepartureTime is always set
type Prediction struct {
	PrimaryIdentifier string `json:"id" groups:"basic"`

	StopID string `json:"stop_id" groups:"basic"`

	ArrivalTime   *time.Time `json:"arrival_time,omitempty" groups:"basic"`
	DepartureTime *time.Time `json:"departure_time,omitempty" groups:"basic"`

	DirectionID int `json:"direction_id" groups:"basic"`

	RouteID        string `json:"route_id" groups:"basic"`
	RouteShortName string `json:"route_short_name" groups:"basic"`
	RouteColour    string `json:"route_colour" groups:"basic"`

	DirectionNames []string `json:"direction_names,omitempty" groups:"basic"`

	Headsign string `json:"headsign" groups:"basic"`

	Status string `json:"status,omitempty" groups:"basic"`
}
