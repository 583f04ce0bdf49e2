package routes

import (
	"github.com/gofiber/fiber/v2"
)

func RoutesRouter(router fiber.Router) {
	router.Get("/", listRoutes)
	router.Post("/:identifier/toggle", toggleRoute)
}

func listRoutes(c *fiber.Ctx) error {
	return marshalBasic(c, engine.Store.Routes())
}

// toggleRoute flips one route in or out of the displayed selection
func toggleRoute(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	if _, ok := engine.Store.Route(identifier); !ok {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Route matching Route Identifier",
		})
	}

	engine.Controller.ToggleRoute(c.Context(), identifier)

	return c.JSON(fiber.Map{
		"selected": engine.Controller.SelectedRouteIDs(),
	})
}
