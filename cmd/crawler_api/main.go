package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/kusinaph/recipe-hunter/internal/apperr"
	"github.com/kusinaph/recipe-hunter/internal/crawler"
	"github.com/kusinaph/recipe-hunter/internal/router"
	"github.com/kusinaph/recipe-hunter/internal/server"
	"github.com/kusinaph/recipe-hunter/internal/storage/pg"
	"github.com/labstack/echo/v4"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	recipes := pg.NewRecipeStore(pool)
	prints := pg.NewFingerprintStore(pool)
	logs := pg.NewCrawlLogStore(pool)
	c := crawler.New(recipes, prints, logs, cfg.CrawlerConfig)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	s := server.NewServer(e, sCfg, pg.NewHealthChecker(pool))

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Recipe Hunter crawler API is running")
	})

	router.NewCrawlerRouter(s.Echo, c, logs, cfg.SeedsPath).Bind()
	router.NewFingerprintRouter(s.Echo, prints).Bind()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
