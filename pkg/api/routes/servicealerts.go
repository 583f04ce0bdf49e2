package routes

import (
	"github.com/gofiber/fiber/v2"
)

func ServiceAlertsRouter(router fiber.Router) {
	router.Get("/", listServiceAlerts)
}

func listServiceAlerts(c *fiber.Ctx) error {
	return marshalBasic(c, engine.Store.Alerts())
}
