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

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

const defaultSeedsPath = "config/seed_sites.yaml"

type CrawlerAPIConfig struct {
	DatabaseURL   string
	SeedsPath     string
	CrawlerConfig crawler.Config
}

func (as *AppConfig) Load() (*CrawlerAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/crawler_api/.env")
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

	return &CrawlerAPIConfig{
		DatabaseURL:   dbURL,
		SeedsPath:     seedsPath,
		CrawlerConfig: loadCrawlerConfig(),
	}, nil
}

func loadCrawlerConfig() crawler.Config {
	var cfg crawler.Config

	if n, err := strconv.Atoi(os.Getenv("CRAWLER_MAX_PAGES")); err == nil {
		cfg.MaxPagesPerSite = n
	}
	if n, err := strconv.Atoi(os.Getenv("CRAWLER_CONCURRENCY")); err == nil {
		cfg.Concurrency = n
	}
	if n, err := strconv.Atoi(os.Getenv("CRAWLER_FETCH_TIMEOUT_SECONDS")); err == nil {
		cfg.FetchTimeout = time.Duration(n) * time.Second
	}

	return cfg
}
