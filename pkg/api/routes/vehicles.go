package routes

import (
	"github.com/gofiber/fiber/v2"
)

func VehiclesRouter(router fiber.Router) {
	router.Get("/", listVehicles)
	router.Post("/:identifier/follow", followVehicle)
	router.Delete("/follow", unfollowVehicle)
}

func listVehicles(c *fiber.Ctx) error {
	return marshalBasic(c, engine.Store.Vehicles())
}

// followVehicle raises one vehicle marker above all others
func followVehicle(c *fiber.Ctx) error {
	engine.Session.FollowVehicle(c.Params("identifier"))

	return c.SendStatus(fiber.StatusNoContent)
}

func unfollowVehicle(c *fiber.Ctx) error {
	engine.Session.FollowVehicle("")

	return c.SendStatus(fiber.StatusNoContent)
}
