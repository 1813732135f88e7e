// Package storage defines the persistence contracts of the ingestion core.
// The pg subpackage is the production implementation; tests may substitute
// in-memory fakes.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kusinaph/recipe-hunter/internal/domain"
)

// RecipeStorer persists recipes keyed by source URL. Upsert is atomic per
// recipe: the row and its image set either both update or neither does. The
// returned bool is true when the recipe was created rather than updated.
type RecipeStorer interface {
	Upsert(ctx context.Context, draft *domain.RecipeDraft, sourceURL, sourceSite string) (domain.Recipe, bool, error)
	GetBySourceURL(ctx context.Context, sourceURL string) (*domain.Recipe, error)
	Images(ctx context.Context, recipeID uuid.UUID) ([]domain.RecipeImage, error)
}

// FingerprintStorer persists one fingerprint per recipe, recomputed on every
// re-crawl.
type FingerprintStorer interface {
	Upsert(ctx context.Context, fp *domain.Fingerprint) error
	ListOthers(ctx context.Context, excludeRecipeID uuid.UUID) ([]domain.Fingerprint, error)
	ListForReview(ctx context.Context, threshold float64, page, size int) ([]DuplicateCandidate, error)
}

// CrawlLogStorer owns the audit trail of site-crawl attempts.
type CrawlLogStorer interface {
	Insert(ctx context.Context, log *domain.CrawlLog) error
	List(ctx context.Context, page, size int) ([]domain.CrawlLog, int64, error)
	Summary(ctx context.Context, since time.Time) (domain.CrawlLogSummary, error)
}

// DuplicateCandidate is one flagged fingerprint joined with both recipes for
// the manual merge review surface. ReviewScore is filled in by the caller.
type DuplicateCandidate struct {
	Fingerprint domain.Fingerprint `json:"fingerprint"`
	Recipe      domain.Recipe      `json:"recipe"`
	Matched     *domain.Recipe     `json:"matched,omitempty"`
	ReviewScore float64            `json:"reviewScore"`
}
