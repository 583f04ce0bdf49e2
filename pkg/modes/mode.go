package modes

import (
	"github.com/transitview/transitview/pkg/routing"
	"github.com/transitview/transitview/pkg/tvf"
)

type ModeKind string

const (
	ModeNormal       ModeKind = "normal"
	ModeRouteSearch  ModeKind = "route_search"
	ModeStopBrowse   ModeKind = "stop_browse"
	ModeNearbySearch ModeKind = "nearby_search"
)

type OriginKind string

const (
	OriginKindGPS      OriginKind = "gps"
	OriginKindMapClick OriginKind = "map_click"
)

// Mode is the active interaction context. Exactly one is ever active; the
// non-Normal variants carry their own payload fields
type Mode struct {
	Kind ModeKind `json:"kind" groups:"basic"`

	// Normal
	TransitKind tvf.TransitKind `json:"transit_kind,omitempty" groups:"basic"`

	// RouteSearch
	Origin            *tvf.Location      `json:"origin,omitempty" groups:"basic"`
	DestinationStopID string             `json:"destination_stop_id,omitempty" groups:"basic"`
	TravelMode        routing.TravelMode `json:"travel_mode,omitempty" groups:"basic"`

	// StopBrowse
	RouteID     string `json:"route_id,omitempty" groups:"basic"`
	StopID      string `json:"stop_id,omitempty" groups:"basic"`
	DirectionID int    `json:"direction_id,omitempty" groups:"basic"`

	// NearbySearch
	OriginKind OriginKind `json:"origin_kind,omitempty" groups:"basic"`
}
