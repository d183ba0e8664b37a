package server

import (
	"github.com/labstack/echo/v4"

	"github.com/parlagraph/parlagraph/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Graph routes
	apiRoutes.GET("/graphs", routes.GetGraphsHandler)
	apiRoutes.POST("/graphs", routes.CreateGraphHandler)
	apiRoutes.GET("/graphs/:id", routes.GetGraphHandler)
	apiRoutes.GET("/graphs/:id/stats", routes.GetGraphStatsHandler)
}
