// Package extract turns fetched recipe pages into RecipeDrafts. Structured
// JSON-LD markup is preferred; a selector-waterfall heuristic scraper covers
// pages without it.
package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/kusinaph/recipe-hunter/internal/domain"
)

// Recipe applies the two-tier extraction waterfall: structured markup first,
// used only when it yields a name, otherwise the heuristic scraper. The
// returned draft may still lack a name, in which case the page is not a
// recipe and contributes nothing.
func Recipe(doc *goquery.Document) *domain.RecipeDraft {
	if draft := Structured(doc); draft != nil && draft.Name != "" {
		return draft
	}
	return Heuristic(doc)
}
