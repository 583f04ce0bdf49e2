package routes

import (
	"github.com/gofiber/fiber/v2"
)

func ShapesRouter(router fiber.Router) {
	router.Get("/", listShapes)
}

func listShapes(c *fiber.Ctx) error {
	return marshalBasic(c, engine.Store.Shapes())
}
