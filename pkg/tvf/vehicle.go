package tvf

type VehicleStatus string

const (
	VehicleStatusStoppedAt   VehicleStatus = "STOPPED_AT"
	VehicleStatusInTransitTo VehicleStatus = "IN_TRANSIT_TO"
	VehicleStatusIncomingAt  VehicleStatus = "INCOMING_AT"
)

type Vehicle struct {
	PrimaryIdentifier string `json:"id" groups:"basic"`

	Location Location `json:"location" groups:"basic"`

	// Degrees clockwise from true north. nil when the provider does not report one
	Bearing *float64 `json:"bearing,omitempty" groups:"basic"`

	// Metres per second
	Speed *float64 `json:"speed,omitempty" groups:"basic"`

	Status VehicleStatus `json:"status" groups:"basic"`

	RouteID     string `json:"route_id" groups:"basic"`
	RouteName   string `json:"route_name" groups:"basic"`
	RouteColour string `json:"route_colour" groups:"basic"`

	CurrentStopName string `json:"current_stop_name,omitempty" groups:"detailed"`
	TripHeadsign    string `json:"trip_headsign,omitempty" groups:"detailed"`
}
