package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parlagraph/parlagraph/internal/server/middleware"
	"github.com/parlagraph/parlagraph/pkg/graph"
	"github.com/parlagraph/parlagraph/pkg/store"
)

func GetGraphStatsHandler(c echo.Context) error {
	type getGraphStatsParams struct {
		ID string `param:"id" validate:"required"`
	}

	params := new(getGraphStatsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	graphStore := c.(*middleware.AppContext).App.Store

	g, err := graphStore.Load(ctx, params.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Graph not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, graph.ComputeStats(g))
}
