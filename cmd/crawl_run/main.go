package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/kusinaph/recipe-hunter/internal/crawler"
	"github.com/kusinaph/recipe-hunter/internal/seeds"
	"github.com/kusinaph/recipe-hunter/internal/storage/pg"
)

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	seedCfg, err := seeds.LoadFile(cfg.SeedsPath)
	if err != nil {
		slog.Error("failed to load seed sites", "path", cfg.SeedsPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	c := crawler.New(
		pg.NewRecipeStore(pool),
		pg.NewFingerprintStore(pool),
		pg.NewCrawlLogStore(pool),
		cfg.CrawlerConfig,
	)

	stats, err := c.Run(ctx, seedCfg.Sites)
	if err != nil {
		slog.Error("crawl run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("crawl run finished",
		"found", stats.RecipesFound,
		"new", stats.RecipesNew,
		"updated", stats.RecipesUpdated,
		"errors", len(stats.Errors),
	)
}
