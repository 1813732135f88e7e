// Package crawler drives multi-site recipe ingestion: discovery, the
// extraction waterfall, image resolution, idempotent persistence and
// fingerprinting, with per-URL and per-site failure isolation.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kusinaph/recipe-hunter/internal/domain"
	"github.com/kusinaph/recipe-hunter/internal/extract"
	"github.com/kusinaph/recipe-hunter/internal/fingerprint"
	"github.com/kusinaph/recipe-hunter/internal/storage"
)

const DefaultMaxPagesPerSite = 100

type Config struct {
	// MaxPagesPerSite bounds crawl duration per seed site.
	MaxPagesPerSite int
	// Concurrency bounds parallel URL workers within one site. 1 keeps the
	// polite sequential behavior.
	Concurrency  int
	FetchTimeout time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.MaxPagesPerSite <= 0 {
		cfg.MaxPagesPerSite = DefaultMaxPagesPerSite
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	return cfg
}

type Crawler struct {
	fetcher *Fetcher
	recipes storage.RecipeStorer
	prints  storage.FingerprintStorer
	logs    storage.CrawlLogStorer
	cfg     Config
}

func New(recipes storage.RecipeStorer, prints storage.FingerprintStorer, logs storage.CrawlLogStorer, cfg Config) *Crawler {
	cfg = cfg.withDefaults()
	return &Crawler{
		fetcher: NewFetcher(cfg.FetchTimeout),
		recipes: recipes,
		prints:  prints,
		logs:    logs,
		cfg:     cfg,
	}
}

// Run crawls every seed site once and returns the aggregate stats. Site
// failures are absorbed into per-site crawl logs; the only error returned is
// a store outage that prevents even the audit trail from being written.
func (c *Crawler) Run(ctx context.Context, sites []string) (domain.CrawlStats, error) {
	session := NewSession()
	slog.Info("starting crawl", "sites", len(sites))

	for _, site := range sites {
		if err := c.crawlSite(ctx, session, site); err != nil {
			return session.Stats(), fmt.Errorf("crawl aborted at %s: %w", site, err)
		}
	}

	stats := session.Stats()
	slog.Info("crawl completed",
		"found", stats.RecipesFound,
		"new", stats.RecipesNew,
		"updated", stats.RecipesUpdated,
		"errors", len(stats.Errors),
	)
	return stats, nil
}

// crawlSite runs one site through Discovering and Extracting and always
// writes its CrawlLog, whose timestamps bracket all URL-level work. The
// returned error is reserved for a failed log write.
func (c *Crawler) crawlSite(ctx context.Context, session *Session, site string) error {
	startTime := time.Now()
	status := domain.CrawlStatusSuccess
	var siteErrors []domain.CrawlError

	slog.Info("crawling site", "site", site)

	candidates, err := c.discover(ctx, site)
	if err != nil {
		status = domain.CrawlStatusError
		siteErr := domain.CrawlError{Context: site, Error: err.Error()}
		siteErrors = append(siteErrors, siteErr)
		session.RecordError(siteErr)
		slog.Error("site discovery failed", "site", site, "error", err)
	} else {
		slog.Info("discovered candidate urls", "site", site, "count", len(candidates))
		siteErrors = c.processURLs(ctx, session, site, candidates)
	}

	endTime := time.Now()
	stats := session.Stats()
	log := &domain.CrawlLog{
		ID:             uuid.New(),
		SiteURL:        site,
		Status:         status,
		RecipesFound:   stats.RecipesFound,
		RecipesNew:     stats.RecipesNew,
		RecipesUpdated: stats.RecipesUpdated,
		Errors:         siteErrors,
		StartTime:      startTime,
		EndTime:        endTime,
		DurationMs:     endTime.Sub(startTime).Milliseconds(),
	}

	if err := c.logs.Insert(ctx, log); err != nil {
		return fmt.Errorf("failed to write crawl log: %w", err)
	}
	return nil
}

// processURLs runs the per-URL pipeline over the candidate list with at most
// cfg.Concurrency workers. One URL's failure never cancels its siblings; it
// is recorded and the loop moves on.
func (c *Crawler) processURLs(ctx context.Context, session *Session, site string, candidates []string) []domain.CrawlError {
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		siteErrs  []domain.CrawlError
		semaphore = make(chan struct{}, c.cfg.Concurrency)
	)

	for _, candidate := range candidates {
		if !session.Visit(candidate) {
			slog.Debug("already visited", "url", candidate)
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func(pageURL string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.processURL(ctx, session, pageURL, site); err != nil {
				slog.Warn("failed to process url", "url", pageURL, "error", err)
				urlErr := domain.CrawlError{URL: pageURL, Error: err.Error()}
				session.RecordError(urlErr)
				mu.Lock()
				siteErrs = append(siteErrs, urlErr)
				mu.Unlock()
			}
		}(candidate)
	}

	wg.Wait()
	return siteErrs
}

// processURL is the per-URL pipeline: fetch, extraction waterfall, image
// resolution, upsert, fingerprint. A draft without a name means the page is
// not a recipe and contributes nothing.
func (c *Crawler) processURL(ctx context.Context, session *Session, pageURL, site string) error {
	doc, err := c.fetcher.Document(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	draft := extract.Recipe(doc)
	if draft.Name == "" {
		slog.Debug("no recipe on page", "url", pageURL)
		return nil
	}

	images := extract.ResolveImages(doc, pageURL, site)
	draft.PrimaryImageURL = images.Primary
	if draft.PrimaryImageURL == "" {
		draft.PrimaryImageURL = draft.ImageURL
	}
	draft.ImageAttribution = images.Attribution
	draft.Images = images.All

	recipe, created, err := c.recipes.Upsert(ctx, draft, pageURL, site)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	session.MarkFound()
	if created {
		session.MarkNew()
	} else {
		session.MarkUpdated()
	}
	slog.Info("saved recipe", "title", recipe.Title, "url", pageURL, "created", created)

	if err := c.fingerprintRecipe(ctx, recipe); err != nil {
		return fmt.Errorf("fingerprint: %w", err)
	}
	return nil
}

// fingerprintRecipe computes the recipe's content hashes, scores them against
// every prior fingerprint and records the best match when it crosses the
// review threshold.
func (c *Crawler) fingerprintRecipe(ctx context.Context, recipe domain.Recipe) error {
	hashes := fingerprint.Compute(recipe)

	priors, err := c.prints.ListOthers(ctx, recipe.ID)
	if err != nil {
		return err
	}

	var (
		bestScore float64
		bestID    *uuid.UUID
	)
	for _, prior := range priors {
		score := (fingerprint.Similarity(hashes.Title, prior.TitleHash) +
			fingerprint.Similarity(hashes.Ingredients, prior.IngredientHash) +
			fingerprint.Similarity(hashes.Instructions, prior.InstructionHash)) / 3
		if score > bestScore {
			bestScore = score
			matched := prior.RecipeID
			bestID = &matched
		}
	}

	fp := &domain.Fingerprint{
		ID:              uuid.New(),
		RecipeID:        recipe.ID,
		TitleHash:       hashes.Title,
		IngredientHash:  hashes.Ingredients,
		InstructionHash: hashes.Instructions,
		SimilarityScore: bestScore,
	}
	if bestScore > fingerprint.ReviewThreshold {
		fp.MatchedRecipeID = bestID
	}
	return c.prints.Upsert(ctx, fp)
}
