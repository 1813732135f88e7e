package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kusinaph/recipe-hunter/internal/domain"
	"github.com/kusinaph/recipe-hunter/internal/storage"
)

type FingerprintStore struct {
	db *pgxpool.Pool
}

func NewFingerprintStore(pool *ConnectionPool) *FingerprintStore {
	return &FingerprintStore{db: pool.conn}
}

var _ storage.FingerprintStorer = (*FingerprintStore)(nil)

const upsertFingerprintCmd = `
	INSERT INTO recipe_fingerprints (
		id, recipe_id, title_hash, ingredient_hash, instruction_hash,
		similarity_score, matched_recipe_id
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (recipe_id) DO UPDATE SET
		title_hash = EXCLUDED.title_hash,
		ingredient_hash = EXCLUDED.ingredient_hash,
		instruction_hash = EXCLUDED.instruction_hash,
		similarity_score = EXCLUDED.similarity_score,
		matched_recipe_id = EXCLUDED.matched_recipe_id;
`

func (s *FingerprintStore) Upsert(ctx context.Context, fp *domain.Fingerprint) error {
	_, err := s.db.Exec(
		ctx,
		upsertFingerprintCmd,
		fp.ID,
		fp.RecipeID,
		fp.TitleHash,
		fp.IngredientHash,
		fp.InstructionHash,
		fp.SimilarityScore,
		fp.MatchedRecipeID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fingerprint: %w", err)
	}
	return nil
}

// ListOthers returns every fingerprint except the given recipe's, for scoring
// a fresh crawl against the prior catalog.
func (s *FingerprintStore) ListOthers(ctx context.Context, excludeRecipeID uuid.UUID) ([]domain.Fingerprint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, recipe_id, title_hash, ingredient_hash, instruction_hash, similarity_score, matched_recipe_id
		FROM recipe_fingerprints
		WHERE recipe_id <> $1;
	`, excludeRecipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fingerprints: %w", err)
	}
	defer rows.Close()

	var prints []domain.Fingerprint
	for rows.Next() {
		var fp domain.Fingerprint
		if err := rows.Scan(&fp.ID, &fp.RecipeID, &fp.TitleHash, &fp.IngredientHash, &fp.InstructionHash, &fp.SimilarityScore, &fp.MatchedRecipeID); err != nil {
			return nil, err
		}
		prints = append(prints, fp)
	}
	return prints, rows.Err()
}

const listForReviewCmd = `
	SELECT
		fp.id, fp.recipe_id, fp.title_hash, fp.ingredient_hash, fp.instruction_hash,
		fp.similarity_score, fp.matched_recipe_id,
		r.id, r.source_url, r.title, r.author, r.ingredients, r.tags,
		m.id, m.source_url, m.title, m.author, m.ingredients, m.tags
	FROM recipe_fingerprints fp
	JOIN recipes r ON r.id = fp.recipe_id
	LEFT JOIN recipes m ON m.id = fp.matched_recipe_id
	WHERE fp.similarity_score > $1
	ORDER BY fp.similarity_score DESC
	LIMIT $2 OFFSET $3;
`

// ListForReview returns flagged fingerprints joined with both recipes,
// highest score first, for the manual merge review surface.
func (s *FingerprintStore) ListForReview(ctx context.Context, threshold float64, page, size int) ([]storage.DuplicateCandidate, error) {
	rows, err := s.db.Query(ctx, listForReviewCmd, threshold, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list duplicate candidates: %w", err)
	}
	defer rows.Close()

	var candidates []storage.DuplicateCandidate
	for rows.Next() {
		var (
			c       storage.DuplicateCandidate
			matched reviewRecipe
			own     reviewRecipe
		)
		err := rows.Scan(
			&c.Fingerprint.ID,
			&c.Fingerprint.RecipeID,
			&c.Fingerprint.TitleHash,
			&c.Fingerprint.IngredientHash,
			&c.Fingerprint.InstructionHash,
			&c.Fingerprint.SimilarityScore,
			&c.Fingerprint.MatchedRecipeID,
			&own.ID, &own.SourceURL, &own.Title, &own.Author, &own.Ingredients, &own.Tags,
			&matched.ID, &matched.SourceURL, &matched.Title, &matched.Author, &matched.Ingredients, &matched.Tags,
		)
		if err != nil {
			return nil, err
		}

		c.Recipe = own.toDomain()
		if matched.ID != nil {
			recipe := matched.toDomain()
			c.Matched = &recipe
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// reviewRecipe scans the subset of recipe columns the review listing needs;
// pointers and raw JSON because the matched side of the join may be entirely
// NULL.
type reviewRecipe struct {
	ID          *uuid.UUID
	SourceURL   *string
	Title       *string
	Author      *string
	Ingredients []byte
	Tags        []byte
}

func (r reviewRecipe) toDomain() domain.Recipe {
	var recipe domain.Recipe
	if len(r.Ingredients) > 0 {
		_ = json.Unmarshal(r.Ingredients, &recipe.Ingredients)
	}
	if len(r.Tags) > 0 {
		_ = json.Unmarshal(r.Tags, &recipe.Tags)
	}
	if r.ID != nil {
		recipe.ID = *r.ID
	}
	if r.SourceURL != nil {
		recipe.SourceURL = *r.SourceURL
	}
	if r.Title != nil {
		recipe.Title = *r.Title
	}
	if r.Author != nil {
		recipe.Author = *r.Author
	}
	return recipe
}
