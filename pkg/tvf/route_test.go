package tvf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteColour(t *testing.T) {
	// The override table wins even when the provider supplies a colour
	assert.Equal(t, "#da291c", RouteColour("Red", RouteTypeHeavyRail, "#ff0000"))
	assert.Equal(t, "#00843d", RouteColour("Green-B", RouteTypeLightRail, ""))
	assert.Equal(t, "#da291c", RouteColour("Mattapan", RouteTypeLightRail, ""))

	// Buses share one colour regardless of provider data
	assert.Equal(t, "#ffc72c", RouteColour("1", RouteTypeBus, "#123456"))

	// Unknown routes fall back to the provider colour, then the default
	assert.Equal(t, "#80276c", RouteColour("CR-Fitchburg", RouteTypeCommuterRail, "#80276c"))
	assert.Equal(t, "#666666", RouteColour("CR-Fitchburg", RouteTypeCommuterRail, ""))
}

func TestTransitKindMatches(t *testing.T) {
	assert.True(t, TransitKindSubway.Matches(RouteTypeLightRail))
	assert.True(t, TransitKindSubway.Matches(RouteTypeHeavyRail))
	assert.False(t, TransitKindSubway.Matches(RouteTypeBus))

	assert.True(t, TransitKindBus.Matches(RouteTypeBus))
	assert.True(t, TransitKindRail.Matches(RouteTypeCommuterRail))
	assert.True(t, TransitKindFerry.Matches(RouteTypeFerry))
	assert.False(t, TransitKindFerry.Matches(RouteTypeCommuterRail))
}

func TestFilterRoutesByKind(t *testing.T) {
	routes := []Route{
		{PrimaryIdentifier: "Red", Type: RouteTypeHeavyRail},
		{PrimaryIdentifier: "Green-B", Type: RouteTypeLightRail},
		{PrimaryIdentifier: "CR-Lowell", Type: RouteTypeCommuterRail},
		{PrimaryIdentifier: "1", Type: RouteTypeBus},
	}

	subway := FilterRoutesByKind(routes, TransitKindSubway)
	assert.Len(t, subway, 2)
	assert.Equal(t, "Red", subway[0].PrimaryIdentifier)
	assert.Equal(t, "Green-B", subway[1].PrimaryIdentifier)

	bus := FilterRoutesByKind(routes, TransitKindBus)
	assert.Len(t, bus, 1)
	assert.Equal(t, "1", bus[0].PrimaryIdentifier)
}
