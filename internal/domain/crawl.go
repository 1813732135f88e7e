package domain

import (
	"time"

	"github.com/google/uuid"
)

type CrawlStatus string

const (
	CrawlStatusSuccess CrawlStatus = "success"
	CrawlStatusError   CrawlStatus = "error"
)

// CrawlError records one failure inside a site crawl. URL is set for per-page
// failures, Context for site-level ones.
type CrawlError struct {
	URL     string `json:"url,omitempty"`
	Context string `json:"context,omitempty"`
	Error   string `json:"error"`
}

// CrawlLog is the audit trail: one row per site-crawl attempt, written
// regardless of outcome.
type CrawlLog struct {
	ID             uuid.UUID    `json:"id"`
	SiteURL        string       `json:"siteUrl"`
	Status         CrawlStatus  `json:"status"`
	RecipesFound   int          `json:"recipesFound"`
	RecipesNew     int          `json:"recipesNew"`
	RecipesUpdated int          `json:"recipesUpdated"`
	Errors         []CrawlError `json:"errors"`
	StartTime      time.Time    `json:"startTime"`
	EndTime        time.Time    `json:"endTime"`
	DurationMs     int64        `json:"durationMs"`
}

// CrawlStats aggregates one whole run across every seed site.
type CrawlStats struct {
	RecipesFound   int          `json:"recipesFound"`
	RecipesNew     int          `json:"recipesNew"`
	RecipesUpdated int          `json:"recipesUpdated"`
	Errors         []CrawlError `json:"errors"`
}

// CrawlLogSummary is the last-7-days aggregate exposed on the stats endpoint.
type CrawlLogSummary struct {
	TotalRuns  int `json:"totalRuns"`
	RecentRuns int `json:"recentRuns"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}
