package domain

import (
	"time"

	"github.com/google/uuid"
)

type RecipeStatus string

const (
	RecipeStatusActive   RecipeStatus = "active"
	RecipeStatusDraft    RecipeStatus = "draft"
	RecipeStatusArchived RecipeStatus = "archived"
)

const RecipeDefaultCategory = "Filipino"

// Recipe is the canonical ingested entity. SourceURL is the natural key:
// re-crawling the same URL updates the existing row under the same ID.
type Recipe struct {
	ID               uuid.UUID    `json:"id"`
	SourceURL        string       `json:"sourceUrl"`
	SourceSite       string       `json:"sourceSite"`
	Title            string       `json:"title"`
	Author           string       `json:"author,omitempty"`
	Description      string       `json:"description,omitempty"`
	Servings         string       `json:"servings,omitempty"`
	PrepTime         string       `json:"prepTime,omitempty"`
	CookTime         string       `json:"cookTime,omitempty"`
	TotalTime        string       `json:"totalTime,omitempty"`
	Ingredients      []Ingredient `json:"ingredients"`
	Instructions     []string     `json:"instructions"`
	Tags             []string     `json:"tags,omitempty"`
	Category         string       `json:"category,omitempty"`
	Rating           *float64     `json:"rating,omitempty"`
	ReviewCount      *int         `json:"reviewCount,omitempty"`
	PrimaryImageURL  string       `json:"primaryImageUrl,omitempty"`
	ImageAttribution string       `json:"imageAttribution,omitempty"`
	PublicationDate  string       `json:"publicationDate,omitempty"`
	CrawledAt        time.Time    `json:"crawledAt"`
	LastUpdatedAt    time.Time    `json:"lastUpdatedAt"`
	IsFeatured       bool         `json:"isFeatured"`
	Status           RecipeStatus `json:"status"`
}

// Ingredient keeps the source ordering; free-text items carry only Text.
type Ingredient struct {
	Text     string `json:"text"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// RecipeImage belongs to exactly one recipe. A re-crawl replaces the whole
// set, so rows are never updated individually.
type RecipeImage struct {
	ID          uuid.UUID `json:"id"`
	RecipeID    uuid.UUID `json:"recipeId"`
	ImageURL    string    `json:"imageUrl"`
	Attribution string    `json:"attribution,omitempty"`
	AltText     string    `json:"altText,omitempty"`
	Position    int       `json:"position"`
}

// RecipeDraft is an extracted, not-yet-persisted candidate recipe. Both
// extractors normalize whatever shape they find into this one type.
type RecipeDraft struct {
	Name             string
	Author           string
	Description      string
	Servings         string
	PrepTime         string
	CookTime         string
	TotalTime        string
	Ingredients      []Ingredient
	Instructions     []string
	Tags             []string
	Category         string
	Rating           *float64
	ReviewCount      *int
	ImageURL         string
	PrimaryImageURL  string
	ImageAttribution string
	Images           []ImageCandidate
	PublicationDate  string
}

// ImageCandidate is a validated gallery entry found on a recipe page.
type ImageCandidate struct {
	URL         string
	AltText     string
	Attribution string
}
