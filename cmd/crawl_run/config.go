package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/kusinaph/recipe-hunter/internal/crawler"
	"github.com/kusinaph/recipe-hunter/pkg/config/env"
)

const defaultSeedsPath = "config/seed_sites.yaml"

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type CrawlRunConfig struct {
	DatabaseURL   string
	SeedsPath     string
	CrawlerConfig crawler.Config
}

func (as *AppConfig) Load() (*CrawlRunConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/crawl_run/.env")
	if err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	seedsPath := os.Getenv("SEED_SITES_PATH")
	if seedsPath == "" {
		slog.Info("SEED_SITES_PATH is not set, using default path", "defaultPath", defaultSeedsPath)
		seedsPath = defaultSeedsPath
	}

	cfg := crawler.Config{}
	if n, err := strconv.Atoi(os.Getenv("CRAWLER_MAX_PAGES")); err == nil {
		cfg.MaxPagesPerSite = n
	}
	if n, err := strconv.Atoi(os.Getenv("CRAWLER_CONCURRENCY")); err == nil {
		cfg.Concurrency = n
	}
	if n, err := strconv.Atoi(os.Getenv("CRAWLER_FETCH_TIMEOUT_SECONDS")); err == nil {
		cfg.FetchTimeout = time.Duration(n) * time.Second
	}

	return &CrawlRunConfig{
		DatabaseURL:   dbURL,
		SeedsPath:     seedsPath,
		CrawlerConfig: cfg,
	}, nil
}
