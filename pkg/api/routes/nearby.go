package routes

import (
	"github.com/gofiber/fiber/v2"
)

func NearbyRouter(router fiber.Router) {
	router.Get("/", getNearbyStops)
}

// getNearbyStops lists the closest stops to the active origin, each with
// a walking estimate and the live vehicles currently near it
func getNearbyStops(c *fiber.Ctx) error {
	nearby, err := engine.Nearby(c.Context())
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return marshalBasic(c, nearby)
}
