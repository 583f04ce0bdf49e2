package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/transitview/transitview/pkg/geolocate"
	"github.com/transitview/transitview/pkg/tvf"
)

func SessionRouter(router fiber.Router) {
	router.Post("/position", reportPosition)
	router.Post("/position_error", reportPositionError)

	router.Post("/origin", setCustomOrigin)
	router.Delete("/origin", clearCustomOrigin)

	router.Post("/zoom", setZoom)
	router.Post("/visibility", setVisibility)

	router.Post("/refresh", refresh)
}

type positionBody struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Heading   *float64 `json:"heading"`
}

// reportPosition feeds one client geolocation fix into the origin tracker
func reportPosition(c *fiber.Ctx) error {
	var body positionBody
	if err := c.BodyParser(&body); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse request body",
		})
	}

	engine.ReportPosition(geolocate.Position{
		Location: tvf.Location{
			Latitude:  body.Latitude,
			Longitude: body.Longitude,
		},
		Heading: body.Heading,
	})

	return c.SendStatus(fiber.StatusNoContent)
}

type positionErrorBody struct {
	Message string `json:"message"`
}

// reportPositionError forwards a client geolocation failure, e.g. the user
// denying the permission prompt
func reportPositionError(c *fiber.Ctx) error {
	var body positionErrorBody
	if err := c.BodyParser(&body); err != nil || body.Message == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "An error message must be given",
		})
	}

	engine.Watcher.ReportError(errors.New(body.Message))

	return c.SendStatus(fiber.StatusNoContent)
}

type originBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func setCustomOrigin(c *fiber.Ctx) error {
	var body originBody
	if err := c.BodyParser(&body); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse request body",
		})
	}

	engine.Origin.SetCustomOrigin(tvf.Location{
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func clearCustomOrigin(c *fiber.Ctx) error {
	engine.Origin.ClearCustomOrigin()

	return c.SendStatus(fiber.StatusNoContent)
}

type zoomBody struct {
	Zoom int `json:"zoom"`
}

func setZoom(c *fiber.Ctx) error {
	var body zoomBody
	if err := c.BodyParser(&body); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse request body",
		})
	}

	engine.Session.SetZoom(body.Zoom)

	return c.SendStatus(fiber.StatusNoContent)
}

type visibilityBody struct {
	Hidden bool `json:"hidden"`
}

// setVisibility mirrors the shell's document visibility - polling pauses
// while the tab is hidden and catches up when it returns
func setVisibility(c *fiber.Ctx) error {
	var body visibilityBody
	if err := c.BodyParser(&body); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not parse request body",
		})
	}

	engine.SetHidden(body.Hidden)

	return c.SendStatus(fiber.StatusNoContent)
}

// refresh runs one manual vehicle and alert refresh cycle
func refresh(c *fiber.Ctx) error {
	engine.Refresh(c.Context())

	return c.SendStatus(fiber.StatusNoContent)
}
