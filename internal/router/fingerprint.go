package router

import (
	"net/http"

	"github.com/kusinaph/recipe-hunter/internal/apperr"
	"github.com/kusinaph/recipe-hunter/internal/fingerprint"
	"github.com/kusinaph/recipe-hunter/internal/storage"
	"github.com/kusinaph/recipe-hunter/pkg/pagination"
	"github.com/labstack/echo/v4"
)

type FingerprintRouter struct {
	e      *echo.Echo
	prints storage.FingerprintStorer
}

func NewFingerprintRouter(e *echo.Echo, prints storage.FingerprintStorer) *FingerprintRouter {
	return &FingerprintRouter{
		e:      e,
		prints: prints,
	}
}

func (r *FingerprintRouter) Bind() {
	r.e.GET("/api/fingerprints/duplicates", r.duplicatesHandler)
}

// duplicatesHandler lists fingerprints flagged above the review threshold,
// highest similarity first, each annotated with the weighted cross-field
// review score for the manual merge queue.
func (r *FingerprintRouter) duplicatesHandler(c echo.Context) error {
	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	_ = page.Validate()

	candidates, err := r.prints.ListForReview(c.Request().Context(), fingerprint.ReviewThreshold, page.Page, page.Size)
	if err != nil {
		return err
	}

	for i := range candidates {
		if candidates[i].Matched != nil {
			candidates[i].ReviewScore = fingerprint.WeightedReviewScore(candidates[i].Recipe, *candidates[i].Matched)
		}
	}
	return c.JSON(http.StatusOK, candidates)
}
