package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parlagraph/parlagraph/internal/server/middleware"
	"github.com/parlagraph/parlagraph/pkg/common"
	"github.com/parlagraph/parlagraph/pkg/graph"
	"github.com/parlagraph/parlagraph/pkg/store"
)

func GetGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		ID     string `param:"id" validate:"required"`
		Format string `query:"format" validate:"omitempty,oneof=json gexf"`
	}

	type getGraphResponse struct {
		Nodes []common.Node `json:"nodes"`
		Edges []common.Edge `json:"edges"`
	}

	params := new(getGraphParams)
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

	if params.Format == "gexf" {
		c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		return graph.EncodeGEXF(c.Response(), g)
	}

	return c.JSON(http.StatusOK, getGraphResponse{
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	})
}
