package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kusinaph/recipe-hunter/internal/apperr"
	"github.com/kusinaph/recipe-hunter/internal/crawler"
	"github.com/kusinaph/recipe-hunter/internal/seeds"
	"github.com/kusinaph/recipe-hunter/internal/storage"
	"github.com/kusinaph/recipe-hunter/pkg/pagination"
	"github.com/labstack/echo/v4"
)

const statsWindow = 7 * 24 * time.Hour

type CrawlerRouter struct {
	e         *echo.Echo
	crawler   *crawler.Crawler
	logs      storage.CrawlLogStorer
	seedsPath string
}

func NewCrawlerRouter(e *echo.Echo, c *crawler.Crawler, logs storage.CrawlLogStorer, seedsPath string) *CrawlerRouter {
	return &CrawlerRouter{
		e:         e,
		crawler:   c,
		logs:      logs,
		seedsPath: seedsPath,
	}
}

func (r *CrawlerRouter) Bind() {
	r.e.POST("/api/crawler/websites", r.crawlHandler)
	r.e.GET("/api/crawler/logs", r.logsHandler)
	r.e.GET("/api/crawler/stats", r.statsHandler)
}

type crawlRequest struct {
	WebsiteURLs []string `json:"websiteUrls"`
}

// crawlHandler runs a full crawl and responds with the aggregate stats. The
// body may name explicit sites; without one the configured seed list is
// crawled, so a bare POST triggers the full multi-site run. Per-site and
// per-URL failures ride along inside the stats; only a store outage turns
// into an error response.
func (r *CrawlerRouter) crawlHandler(c echo.Context) error {
	var req crawlRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	sites := req.WebsiteURLs
	if len(sites) == 0 {
		seedCfg, err := seeds.LoadFile(r.seedsPath)
		if err != nil {
			return fmt.Errorf("failed to load seed sites: %w", err)
		}
		sites = seedCfg.Sites
	} else {
		cfg := seeds.Config{Sites: sites}
		if err := cfg.Validate(); err != nil {
			return apperr.NewValidationWrap("invalid websiteUrls", err)
		}
	}

	stats, err := r.crawler.Run(c.Request().Context(), sites)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "crawl aborted: "+err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (r *CrawlerRouter) logsHandler(c echo.Context) error {
	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	_ = page.Validate()

	logs, total, err := r.logs.List(c.Request().Context(), page.Page, page.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewOffsetResult(logs, total, page.Page, page.Size))
}

func (r *CrawlerRouter) statsHandler(c echo.Context) error {
	summary, err := r.logs.Summary(c.Request().Context(), time.Now().Add(-statsWindow))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
