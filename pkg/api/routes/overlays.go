package routes

import (
	"github.com/gofiber/fiber/v2"
)

func OverlaysRouter(router fiber.Router) {
	router.Get("/", getOverlays)
}

// getOverlays returns the current rendered frame - markers in stacking
// order plus polyline overlays and the viewport - for the shell to draw
func getOverlays(c *fiber.Ctx) error {
	return marshalBasic(c, engine.Overlays())
}
