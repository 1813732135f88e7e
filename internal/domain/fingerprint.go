package domain

import "github.com/google/uuid"

// Fingerprint holds the derived content hashes of one recipe, plus the score
// against the most similar previously crawled recipe.
type Fingerprint struct {
	ID              uuid.UUID  `json:"id"`
	RecipeID        uuid.UUID  `json:"recipeId"`
	TitleHash       string     `json:"titleHash"`
	IngredientHash  string     `json:"ingredientHash"`
	InstructionHash string     `json:"instructionHash"`
	SimilarityScore float64    `json:"similarityScore"`
	MatchedRecipeID *uuid.UUID `json:"matchedRecipeId,omitempty"`
}
