package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kusinaph/recipe-hunter/internal/domain"
	"github.com/kusinaph/recipe-hunter/internal/storage"
)

type RecipeStore struct {
	db *pgxpool.Pool
}

func NewRecipeStore(pool *ConnectionPool) *RecipeStore {
	return &RecipeStore{db: pool.conn}
}

var _ storage.RecipeStorer = (*RecipeStore)(nil)

const upsertRecipeCmd = `
	INSERT INTO recipes (
		id, source_url, source_site, title, author, description,
		servings, prep_time, cook_time, total_time,
		ingredients, instructions, tags, category,
		rating, review_count, primary_image_url, image_attribution,
		publication_date, crawled_at, last_updated_at, status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	ON CONFLICT (source_url) DO UPDATE SET
		source_site = EXCLUDED.source_site,
		title = EXCLUDED.title,
		author = EXCLUDED.author,
		description = EXCLUDED.description,
		servings = EXCLUDED.servings,
		prep_time = EXCLUDED.prep_time,
		cook_time = EXCLUDED.cook_time,
		total_time = EXCLUDED.total_time,
		ingredients = EXCLUDED.ingredients,
		instructions = EXCLUDED.instructions,
		tags = EXCLUDED.tags,
		category = EXCLUDED.category,
		rating = EXCLUDED.rating,
		review_count = EXCLUDED.review_count,
		primary_image_url = EXCLUDED.primary_image_url,
		image_attribution = EXCLUDED.image_attribution,
		publication_date = EXCLUDED.publication_date,
		last_updated_at = EXCLUDED.last_updated_at
	RETURNING id, crawled_at, last_updated_at, is_featured, status, (xmax = 0) AS inserted;
`

// Upsert inserts or replaces a recipe keyed by source URL, inside one
// transaction together with its image set. The existing id, crawled_at and
// the admin-owned is_featured/status columns survive an update; everything
// crawler-owned is overwritten and last_updated_at is refreshed.
func (s *RecipeStore) Upsert(ctx context.Context, draft *domain.RecipeDraft, sourceURL, sourceSite string) (domain.Recipe, bool, error) {
	recipe := recipeFromDraft(draft, sourceURL, sourceSite)

	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return domain.Recipe{}, false, fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	instructionsJSON, err := json.Marshal(recipe.Instructions)
	if err != nil {
		return domain.Recipe{}, false, fmt.Errorf("failed to marshal instructions: %w", err)
	}
	tagsJSON, err := json.Marshal(recipe.Tags)
	if err != nil {
		return domain.Recipe{}, false, fmt.Errorf("failed to marshal tags: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Recipe{}, false, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted bool
	err = tx.QueryRow(
		ctx,
		upsertRecipeCmd,
		recipe.ID,
		recipe.SourceURL,
		recipe.SourceSite,
		recipe.Title,
		recipe.Author,
		recipe.Description,
		recipe.Servings,
		recipe.PrepTime,
		recipe.CookTime,
		recipe.TotalTime,
		ingredientsJSON,
		instructionsJSON,
		tagsJSON,
		recipe.Category,
		recipe.Rating,
		recipe.ReviewCount,
		recipe.PrimaryImageURL,
		recipe.ImageAttribution,
		recipe.PublicationDate,
		recipe.CrawledAt,
		recipe.LastUpdatedAt,
		recipe.Status,
	).Scan(&recipe.ID, &recipe.CrawledAt, &recipe.LastUpdatedAt, &recipe.IsFeatured, &recipe.Status, &inserted)
	if err != nil {
		return domain.Recipe{}, false, fmt.Errorf("failed to upsert recipe: %w", err)
	}

	if err := s.replaceImages(ctx, tx, recipe.ID, draft.Images); err != nil {
		return domain.Recipe{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Recipe{}, false, fmt.Errorf("failed to commit recipe upsert: %w", err)
	}
	return recipe, inserted, nil
}

// replaceImages swaps the recipe's whole gallery; re-crawls replace, never
// append.
func (s *RecipeStore) replaceImages(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, images []domain.ImageCandidate) error {
	if _, err := tx.Exec(ctx, `DELETE FROM recipe_images WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe images: %w", err)
	}
	if len(images) == 0 {
		return nil
	}

	rows := make([][]any, len(images))
	for i, img := range images {
		rows[i] = []any{uuid.New(), recipeID, img.URL, img.Attribution, img.AltText, i}
	}
	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"recipe_images"},
		[]string{"id", "recipe_id", "image_url", "image_attribution", "alt_text", "position"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe images: %w", err)
	}
	return nil
}

const selectRecipeCols = `
	id, source_url, source_site, title, author, description,
	servings, prep_time, cook_time, total_time,
	ingredients, instructions, tags, category,
	rating, review_count, primary_image_url, image_attribution,
	publication_date, crawled_at, last_updated_at, is_featured, status
`

func (s *RecipeStore) GetBySourceURL(ctx context.Context, sourceURL string) (*domain.Recipe, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectRecipeCols+` FROM recipes WHERE source_url = $1`, sourceURL)
	recipe, err := scanRecipe(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeStore) Images(ctx context.Context, recipeID uuid.UUID) ([]domain.RecipeImage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, recipe_id, image_url, image_attribution, alt_text, position
		FROM recipe_images
		WHERE recipe_id = $1
		ORDER BY position;
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe images: %w", err)
	}
	defer rows.Close()

	var images []domain.RecipeImage
	for rows.Next() {
		var img domain.RecipeImage
		if err := rows.Scan(&img.ID, &img.RecipeID, &img.ImageURL, &img.Attribution, &img.AltText, &img.Position); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func recipeFromDraft(draft *domain.RecipeDraft, sourceURL, sourceSite string) domain.Recipe {
	now := time.Now()
	category := draft.Category
	if category == "" {
		category = domain.RecipeDefaultCategory
	}
	return domain.Recipe{
		ID:               uuid.New(),
		SourceURL:        sourceURL,
		SourceSite:       sourceSite,
		Title:            draft.Name,
		Author:           draft.Author,
		Description:      draft.Description,
		Servings:         draft.Servings,
		PrepTime:         draft.PrepTime,
		CookTime:         draft.CookTime,
		TotalTime:        draft.TotalTime,
		Ingredients:      draft.Ingredients,
		Instructions:     draft.Instructions,
		Tags:             draft.Tags,
		Category:         category,
		Rating:           draft.Rating,
		ReviewCount:      draft.ReviewCount,
		PrimaryImageURL:  draft.PrimaryImageURL,
		ImageAttribution: draft.ImageAttribution,
		PublicationDate:  draft.PublicationDate,
		CrawledAt:        now,
		LastUpdatedAt:    now,
		Status:           domain.RecipeStatusActive,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (domain.Recipe, error) {
	var (
		recipe           domain.Recipe
		ingredientsJSON  []byte
		instructionsJSON []byte
		tagsJSON         []byte
	)
	err := row.Scan(
		&recipe.ID,
		&recipe.SourceURL,
		&recipe.SourceSite,
		&recipe.Title,
		&recipe.Author,
		&recipe.Description,
		&recipe.Servings,
		&recipe.PrepTime,
		&recipe.CookTime,
		&recipe.TotalTime,
		&ingredientsJSON,
		&instructionsJSON,
		&tagsJSON,
		&recipe.Category,
		&recipe.Rating,
		&recipe.ReviewCount,
		&recipe.PrimaryImageURL,
		&recipe.ImageAttribution,
		&recipe.PublicationDate,
		&recipe.CrawledAt,
		&recipe.LastUpdatedAt,
		&recipe.IsFeatured,
		&recipe.Status,
	)
	if err != nil {
		return domain.Recipe{}, err
	}

	if err := json.Unmarshal(ingredientsJSON, &recipe.Ingredients); err != nil {
		return domain.Recipe{}, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if err := json.Unmarshal(instructionsJSON, &recipe.Instructions); err != nil {
		return domain.Recipe{}, fmt.Errorf("failed to unmarshal instructions: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &recipe.Tags); err != nil {
		return domain.Recipe{}, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	return recipe, nil
}
