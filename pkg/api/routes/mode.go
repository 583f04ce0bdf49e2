package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/transitview/transitview/pkg/modes"
	"github.com/transitview/transitview/pkg/routing"
	"github.com/transitview/transitview/pkg/tvf"
)

func ModeRouter(router fiber.Router) {
	router.Get("/", getMode)

	router.Post("/transit_kind", setTransitKind)

	router.Post("/stop_browse", enterStopBrowse)
	router.Delete("/stop_browse", exitStopBrowse)

	router.Post("/nearby_search", enterNearbySearch)
	router.Delete("/nearby_search", exitNearbySearch)

	router.Post("/route_search", enterRouteSearch)
	router.Delete("/route_search", exitRouteSearch)
}

func getMode(c *fiber.Ctx) error {
	return marshalBasic(c, engine.Controller.Mode())
}

type setTransitKindBody struct {
	TransitKind tvf.TransitKind `json:"transit_kind"`
}

func setTransitKind(c *fiber.Ctx) error {
	var body setTransitKindBody
	if err := c.BodyParser(&body); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse request body",
		})
	}

	switch body.TransitKind {
	case tvf.TransitKindSubway, tvf.TransitKindBus, tvf.TransitKindRail, tvf.TransitKindFerry:
	default:
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Unknown transit kind",
		})
	}

	engine.Controller.SetTransitKind(c.Context(), body.TransitKind)

	return marshalBasic(c, engine.Controller.Mode())
}

type stopBrowseBody struct {
	RouteID     string `json:"route_id"`
	StopID      string `json:"stop_id"`
	DirectionID int    `json:"direction_id"`
}

func enterStopBrowse(c *fiber.Ctx) error {
	var body stopBrowseBody
	if err := c.BodyParser(&body); err != nil || body.RouteID == "" || body.StopID == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A route and stop must be given",
		})
	}

	engine.Controller.EnterStopBrowse(c.Context(), body.RouteID, body.StopID, body.DirectionID)

	return marshalBasic(c, engine.Controller.Mode())
}

func exitStopBrowse(c *fiber.Ctx) error {
	engine.Controller.ExitStopBrowse(c.Context())

	return marshalBasic(c, engine.Controller.Mode())
}

type nearbySearchBody struct {
	Origin *tvf.Location `json:"origin"`
}

// enterNearbySearch opens the nearby panel. An explicit origin in the body
// is a map click; without one the live GPS position serves
func enterNearbySearch(c *fiber.Ctx) error {
	var body nearbySearchBody
	c.BodyParser(&body)

	originKind := modes.OriginKindGPS
	if body.Origin != nil {
		originKind = modes.OriginKindMapClick
		engine.Origin.SetCustomOrigin(*body.Origin)
	}

	engine.Controller.EnterNearbySearch(originKind)

	return marshalBasic(c, engine.Controller.Mode())
}

func exitNearbySearch(c *fiber.Ctx) error {
	engine.Controller.ExitNearbySearch()

	return marshalBasic(c, engine.Controller.Mode())
}

type routeSearchBody struct {
	Origin            *tvf.Location      `json:"origin"`
	DestinationStopID string             `json:"destination_stop_id"`
	TravelMode        routing.TravelMode `json:"travel_mode"`
}

func enterRouteSearch(c *fiber.Ctx) error {
	var body routeSearchBody
	if err := c.BodyParser(&body); err != nil || body.DestinationStopID == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A destination stop must be given",
		})
	}

	if body.TravelMode == "" {
		body.TravelMode = routing.TravelModeWalk
	}

	switch body.TravelMode {
	case routing.TravelModeWalk, routing.TravelModeBike, routing.TravelModeDrive:
	default:
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Unknown travel mode",
		})
	}

	estimate, err := engine.StartRouteSearch(c.Context(), body.Origin, body.DestinationStopID, body.TravelMode)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return marshalBasic(c, estimate)
}

func exitRouteSearch(c *fiber.Ctx) error {
	engine.EndRouteSearch()

	return marshalBasic(c, engine.Controller.Mode())
}
