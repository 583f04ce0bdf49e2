package mapsession

import "github.com/transitview/transitview/pkg/tvf"

// MarkerRef and OverlayRef are opaque handles to rendered overlays. They
// never leave this package - the session is the sole owner of every
// overlay lifetime
type MarkerRef int

type OverlayRef int

type MarkerKind string

const (
	MarkerKindVehicle      MarkerKind = "vehicle"
	MarkerKindStop         MarkerKind = "stop"
	MarkerKindOriginGPS    MarkerKind = "origin_gps"
	MarkerKindOriginCustom MarkerKind = "origin_custom"
)

// Marker stacking order - route lines sit below everything, a followed
// vehicle above its peers, the user marker topmost
const (
	ZIndexStop            = 0
	ZIndexVehicle         = 1000
	ZIndexFollowedVehicle = 1500
	ZIndexOrigin          = 2000
)

type MarkerSpec struct {
	Kind MarkerKind

	Location tvf.Location

	// Degrees clockwise from north, only meaningful for vehicles
	Bearing *float64

	Colour string

	// Always-visible label text (stop names)
	Label string

	ZIndex int
}

type PolylineSpec struct {
	Points  []tvf.Location
	Colour  string
	Weight  int
	Opacity float64
}

// PolylineGroupSpec is one grouped overlay of several polylines, e.g. all
// branches of a route, torn down together
type PolylineGroupSpec struct {
	Polylines []PolylineSpec
}

// Renderer is the map substrate capability: place a marker, draw a
// polyline, pan the viewport. The session drives it; it knows nothing
// about transit semantics
type Renderer interface {
	AddMarker(spec MarkerSpec) MarkerRef
	MoveMarker(ref MarkerRef, location tvf.Location)
	RotateMarker(ref MarkerRef, bearing float64)
	SetMarkerZIndex(ref MarkerRef, zIndex int)
	SetMarkerVisible(ref MarkerRef, visible bool)
	RemoveMarker(ref MarkerRef)

	AddPolylineGroup(spec PolylineGroupSpec) OverlayRef
	SetPolylinePoints(ref OverlayRef, index int, points []tvf.Location)
	SetOverlayVisible(ref OverlayRef, visible bool)
	RemoveOverlay(ref OverlayRef)

	FlyTo(location tvf.Location, zoom int)
}
