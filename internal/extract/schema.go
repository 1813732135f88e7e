package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kusinaph/recipe-hunter/internal/domain"
)

// ldNode is a loosely typed JSON-LD object. Publisher markup is wildly
// inconsistent, so every field read goes through a coercing helper.
type ldNode map[string]any

// Structured scans every JSON-LD block on the page and returns the first one
// that decodes to a recipe. Blocks typed Article/NewsArticle are descended
// into via mainEntity, arrays contribute their first Recipe element, and
// malformed blocks are skipped silently. A nil return signals the caller to
// fall back to heuristic extraction.
func Structured(doc *goquery.Document) *domain.RecipeDraft {
	var draft *domain.RecipeDraft

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		node := decodeRecipeNode(s.Text())
		if node == nil {
			return true
		}
		draft = draftFromNode(node)
		return draft == nil
	})

	return draft
}

// RecipeURL returns the canonical URL declared by a JSON-LD block that holds
// a recipe, or "" otherwise. Discovery uses this to collect candidate pages
// from listing and article pages.
func RecipeURL(block string) string {
	node := decodeRecipeNode(block)
	if node == nil {
		return ""
	}
	return asText(node["url"])
}

// decodeRecipeNode normalizes the known JSON-LD shapes into a single Recipe
// node, or nil when the block holds no recipe.
func decodeRecipeNode(raw string) ldNode {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil
	}
	return recipeNodeOf(v)
}

func recipeNodeOf(v any) ldNode {
	switch node := v.(type) {
	case map[string]any:
		typ := nodeType(node)
		if typ == "Recipe" {
			return node
		}
		if typ == "Article" || typ == "NewsArticle" {
			return recipeNodeOf(node["mainEntity"])
		}
	case []any:
		for _, item := range node {
			if obj, ok := item.(map[string]any); ok && nodeType(obj) == "Recipe" {
				return obj
			}
		}
	}
	return nil
}

func nodeType(node ldNode) string {
	switch t := node["@type"].(type) {
	case string:
		return t
	case []any:
		// Multi-typed nodes ("@type": ["Recipe", "NewsArticle"]) count as
		// Recipe when any entry matches.
		for _, item := range t {
			if s, ok := item.(string); ok && s == "Recipe" {
				return "Recipe"
			}
		}
	}
	return ""
}

func draftFromNode(node ldNode) *domain.RecipeDraft {
	draft := &domain.RecipeDraft{
		Name:            asText(node["name"]),
		Author:          asText(node["author"]),
		Description:     asText(node["description"]),
		Servings:        asText(node["recipeYield"]),
		PrepTime:        asText(node["prepTime"]),
		CookTime:        asText(node["cookTime"]),
		TotalTime:       asText(node["totalTime"]),
		Category:        asText(node["recipeCategory"]),
		ImageURL:        asText(node["image"]),
		PublicationDate: asText(node["datePublished"]),
	}

	for _, item := range asTextList(node["recipeIngredient"]) {
		draft.Ingredients = append(draft.Ingredients, domain.Ingredient{Text: item})
	}
	if len(draft.Ingredients) == 0 {
		for _, item := range asTextList(node["ingredients"]) {
			draft.Ingredients = append(draft.Ingredients, domain.Ingredient{Text: item})
		}
	}

	draft.Instructions = asTextList(node["recipeInstructions"])
	draft.Tags = asKeywords(node["keywords"])

	if rating, ok := node["aggregateRating"].(map[string]any); ok {
		if value := asFloat(rating["ratingValue"]); value != nil {
			draft.Rating = value
		}
		if count := asInt(rating["reviewCount"]); count != nil {
			draft.ReviewCount = count
		}
	}

	return draft
}

// asText coerces the common JSON-LD value shapes to a single string: plain
// strings, numbers, named objects ({"name": ...} / {"text": ...} /
// {"url": ...}) and first elements of lists.
func asText(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any:
		for _, key := range []string{"name", "text", "url"} {
			if s := asText(val[key]); s != "" {
				return s
			}
		}
	case []any:
		for _, item := range val {
			if s := asText(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// asTextList flattens strings, lists and HowToStep/HowToSection objects into
// an ordered list of step texts.
func asTextList(v any) []string {
	switch val := v.(type) {
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	case []any:
		var out []string
		for _, item := range val {
			switch step := item.(type) {
			case string:
				if s := strings.TrimSpace(step); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if nested, ok := step["itemListElement"]; ok {
					out = append(out, asTextList(nested)...)
				} else if s := asText(step); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case map[string]any:
		if nested, ok := val["itemListElement"]; ok {
			return asTextList(nested)
		}
		if s := asText(val); s != "" {
			return []string{s}
		}
	}
	return nil
}

// asKeywords accepts either a comma-separated string or a list of strings.
func asKeywords(v any) []string {
	if s, ok := v.(string); ok {
		var tags []string
		for _, part := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
		return tags
	}
	return asTextList(v)
}

func asFloat(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return &parsed
		}
	}
	return nil
}

func asInt(v any) *int {
	if f := asFloat(v); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}
