package crawler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kusinaph/recipe-hunter/internal/extract"
	"github.com/kusinaph/recipe-hunter/pkg/urlutil"
)

// discover unions the sitemap scan and the seed-page scan, deduplicated and
// capped at MaxPagesPerSite. Sitemap absence is routine and logged at debug
// only; an unreachable seed page is an error the caller escalates when the
// sitemap produced nothing either.
func (c *Crawler) discover(ctx context.Context, site string) ([]string, error) {
	candidates := c.sitemapURLs(ctx, site)

	pageURLs, err := c.pageURLs(ctx, site)
	if err != nil && len(candidates) == 0 {
		return nil, err
	}
	if err != nil {
		slog.Warn("seed page scan failed, using sitemap only", "site", site, "error", err)
	}
	candidates = append(candidates, pageURLs...)

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, u := range candidates {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	if len(unique) > c.cfg.MaxPagesPerSite {
		unique = unique[:c.cfg.MaxPagesPerSite]
	}
	return unique, nil
}

// sitemapURLs collects every sitemap <loc> mentioning "recipe".
func (c *Crawler) sitemapURLs(ctx context.Context, site string) []string {
	sitemapURL, ok := urlutil.Resolve("/sitemap.xml", site)
	if !ok {
		return nil
	}

	doc, err := c.fetcher.Document(ctx, sitemapURL)
	if err != nil {
		slog.Debug("sitemap not available", "site", site, "error", err)
		return nil
	}

	var urls []string
	doc.Find("loc").Each(func(_ int, s *goquery.Selection) {
		loc := strings.TrimSpace(s.Text())
		if strings.Contains(strings.ToLower(loc), "recipe") {
			urls = append(urls, loc)
		}
	})

	slog.Debug("sitemap scan finished", "site", site, "urls", len(urls))
	return urls
}

// pageURLs scans the seed root page for recipe URLs declared in JSON-LD
// blocks and for anchors whose href mentions "recipe".
func (c *Crawler) pageURLs(ctx context.Context, site string) ([]string, error) {
	doc, err := c.fetcher.Document(ctx, site)
	if err != nil {
		return nil, err
	}

	var urls []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if u := extract.RecipeURL(s.Text()); u != "" {
			urls = append(urls, u)
		}
	})

	doc.Find(`a[href*="recipe"]`).Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		if resolved, ok := urlutil.Resolve(href, site); ok {
			urls = append(urls, resolved)
		}
	})

	return urls, nil
}
