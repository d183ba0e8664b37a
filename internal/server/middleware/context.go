package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/parlagraph/parlagraph/pkg/store"
)

// App holds the shared dependencies handlers reach through the request
// context.
type App struct {
	Store store.GraphStore
}

type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware wraps every request context in an AppContext
// carrying the graph store.
func AppContextMiddleware(graphStore store.GraphStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := &App{
				Store: graphStore,
			}
			return next(&AppContext{c, app})
		}
	}
}
