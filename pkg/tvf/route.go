package tvf

type RouteType int

const (
	RouteTypeLightRail    RouteType = 0
	RouteTypeHeavyRail    RouteType = 1
	RouteTypeCommuterRail RouteType = 2
	RouteTypeBus          RouteType = 3
	RouteTypeFerry        RouteType = 4
)

type TransitKind string

const (
	TransitKindSubway TransitKind = "subway"
	TransitKindBus    TransitKind = "bus"
	TransitKindRail   TransitKind = "rail"
	TransitKindFerry  TransitKind = "ferry"
)

// RouteTypes gives the provider route types belonging to a transit kind
func (k TransitKind) RouteTypes() []RouteType {
	switch k {
	case TransitKindSubway:
		return []RouteType{RouteTypeLightRail, RouteTypeHeavyRail}
	case TransitKindBus:
		return []RouteType{RouteTypeBus}
	case TransitKindRail:
		return []RouteType{RouteTypeCommuterRail}
	case TransitKindFerry:
		return []RouteType{RouteTypeFerry}
	}

	return nil
}

func (k TransitKind) Matches(routeType RouteType) bool {
	for _, t := range k.RouteTypes() {
		if t == routeType {
			return true
		}
	}

	return false
}

type Route struct {
	PrimaryIdentifier string `json:"id" groups:"basic"`

	Name      string `json:"name" groups:"basic"`
	ShortName string `json:"short_name" groups:"basic"`

	Type RouteType `json:"type" groups:"basic"`

	Colour     string `json:"colour" groups:"basic"`
	TextColour string `json:"text_colour" groups:"basic"`

	DirectionNames []string `json:"direction_names" groups:"basic"`
}

// Known line colours take priority over whatever the provider reports
var routeColourOverrides = map[string]string{
	"Red":      "#da291c",
	"Orange":   "#ed8b00",
	"Blue":     "#003da5",
	"Green-B":  "#00843d",
	"Green-C":  "#00843d",
	"Green-D":  "#00843d",
	"Green-E":  "#00843d",
	"Mattapan": "#da291c",
}

const defaultRouteColour = "#666666"
const busRouteColour = "#ffc72c"

// RouteColour resolves the display colour for a route, preferring the
// override table, then the provider supplied colour
func RouteColour(routeID string, routeType RouteType, providerColour string) string {
	if colour, ok := routeColourOverrides[routeID]; ok {
		return colour
	}

	if routeType == RouteTypeBus {
		return busRouteColour
	}

	if providerColour != "" {
		return providerColour
	}

	return defaultRouteColour
}

// FilterRoutesByKind returns the subset of routes whose type belongs to the
// given transit kind
func FilterRoutesByKind(routes []Route, kind TransitKind) []Route {
	var filtered []Route

	for _, route := range routes {
		if kind.Matches(route.Type) {
			filtered = append(filtered, route)
		}
	}

	return filtered
}
