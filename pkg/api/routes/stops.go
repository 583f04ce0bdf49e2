package routes

import (
	"github.com/gofiber/fiber/v2"
)

func StopsRouter(router fiber.Router) {
	router.Get("/", listStops)
	router.Get("/:identifier/inspection", getStopInspection)
}

func listStops(c *fiber.Ctx) error {
	return marshalBasic(c, engine.Store.Stops())
}

// getStopInspection resolves the stop popup payload: live predictions
// plus a walking estimate when an origin is known
func getStopInspection(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	inspection, err := engine.InspectStop(c.Context(), identifier)
	if err != nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	return marshalBasic(c, inspection)
}
