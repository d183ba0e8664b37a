package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parlagraph/parlagraph/internal/server/middleware"
	"github.com/parlagraph/parlagraph/pkg/graph"
	"github.com/parlagraph/parlagraph/pkg/logger"
	"github.com/parlagraph/parlagraph/pkg/resolver"
)

func CreateGraphHandler(c echo.Context) error {
	type createGraphParams struct {
		Name string `json:"name" validate:"required"`
		// Documents carries annotated transcript texts, one per session.
		Documents []string `json:"documents" validate:"required,min=1"`
	}

	params := new(createGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	builder := graph.NewBuilder(resolver.New())
	for _, doc := range params.Documents {
		builder.AddDocument(doc)
	}
	g := builder.Graph()

	ctx := c.Request().Context()
	graphStore := c.(*middleware.AppContext).App.Store

	record, err := graphStore.Save(ctx, params.Name, g)
	if err != nil {
		logger.Error("Failed to save graph", "name", params.Name, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	logger.Info("Graph created",
		"id", record.ID,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
	)
	return c.JSON(http.StatusCreated, record)
}
