package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	mid "github.com/parlagraph/parlagraph/internal/server/middleware"
	"github.com/parlagraph/parlagraph/internal/util"
	"github.com/parlagraph/parlagraph/pkg/logger"
	"github.com/parlagraph/parlagraph/pkg/store"
	"github.com/parlagraph/parlagraph/pkg/store/gexffile"
	pgxstore "github.com/parlagraph/parlagraph/pkg/store/pgx"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var graphStore store.GraphStore
	if dbURL := util.GetEnv("DATABASE_URL"); dbURL != "" {
		conn, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		defer conn.Close()

		graphStore, err = pgxstore.NewGraphDBStoreWithConnection(ctx, conn)
		if err != nil {
			logger.Fatal("Failed to initialize graph schema", "err", err)
		}
	} else {
		dir := util.GetEnvString("GRAPH_DIR", "graphs")
		fileStore, err := gexffile.New(dir)
		if err != nil {
			logger.Fatal("Failed to open graph directory", "dir", dir, "err", err)
		}
		graphStore = fileStore
	}

	e.Use(mid.AppContextMiddleware(graphStore))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("16M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
