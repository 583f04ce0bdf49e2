package routes

import (
	"github.com/gofiber/fiber/v2"
)

func GeocodeRouter(router fiber.Router) {
	router.Get("/", searchPlaces)
}

func searchPlaces(c *fiber.Ctx) error {
	queryText := c.Query("q")

	if queryText == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A search query must be given",
		})
	}

	return marshalBasic(c, engine.Geocoder.Search(c.Context(), queryText))
}
