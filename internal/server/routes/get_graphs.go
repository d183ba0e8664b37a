package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parlagraph/parlagraph/internal/server/middleware"
)

func GetGraphsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	graphStore := c.(*middleware.AppContext).App.Store

	records, err := graphStore.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, records)
}
