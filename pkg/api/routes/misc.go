package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/transitview/transitview/pkg/livemap"
)

var engine *livemap.Engine

// UseEngine binds the handlers to the running engine instance
func UseEngine(e *livemap.Engine) {
	engine = e
}

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": "1.0",
	})
}

// marshalBasic reduces a response to its basic field group before encoding
func marshalBasic(c *fiber.Ctx, data interface{}) error {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, data)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not reduce response",
		})
	}

	return c.JSON(reduced)
}
