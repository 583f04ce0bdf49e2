// Package api exposes the live map engine over HTTP for the browser shell:
// rendered overlay frames, the raw entity sets, mode transitions and the
// session inputs (position fixes, zoom, visibility).
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/transitview/transitview/pkg/api/routes"
	"github.com/transitview/transitview/pkg/livemap"
)

func SetupServer(listen string, engine *livemap.Engine) error {
	routes.UseEngine(engine)

	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/livemap")

	group.Get("version", routes.APIVersion)

	routes.OverlaysRouter(group.Group("/overlays"))

	routes.RoutesRouter(group.Group("/routes"))
	routes.VehiclesRouter(group.Group("/vehicles"))
	routes.StopsRouter(group.Group("/stops"))
	routes.ShapesRouter(group.Group("/shapes"))

	routes.ServiceAlertsRouter(group.Group("/service_alerts"))

	routes.ModeRouter(group.Group("/mode"))

	routes.NearbyRouter(group.Group("/nearby"))
	routes.GeocodeRouter(group.Group("/geocode"))

	routes.SessionRouter(group.Group("/session"))

	return webApp.Listen(listen)
}
