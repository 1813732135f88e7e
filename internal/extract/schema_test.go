package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestStructured_RecipeBlock(t *testing.T) {
	doc := parseHTML(t, `<html><head><script type="application/ld+json">
	{
		"@type": "Recipe",
		"name": "Chicken Adobo",
		"author": {"@type": "Person", "name": "Maria Santos"},
		"description": "Classic braised chicken.",
		"recipeYield": "4 servings",
		"prepTime": "PT15M",
		"cookTime": "PT45M",
		"totalTime": "PT1H",
		"recipeCategory": "Main Course",
		"recipeIngredient": ["1 kg chicken", "1/2 cup soy sauce", "1/2 cup vinegar"],
		"recipeInstructions": [
			{"@type": "HowToStep", "text": "Marinate the chicken."},
			{"@type": "HowToStep", "text": "Simmer until tender."}
		],
		"keywords": "adobo, chicken, filipino",
		"image": "https://x.com/img/adobo.jpg",
		"datePublished": "2024-03-01",
		"aggregateRating": {"ratingValue": "4.8", "reviewCount": 120}
	}
	</script></head><body></body></html>`)

	draft := Structured(doc)
	require.NotNil(t, draft)

	assert.Equal(t, "Chicken Adobo", draft.Name)
	assert.Equal(t, "Maria Santos", draft.Author)
	assert.Equal(t, "Classic braised chicken.", draft.Description)
	assert.Equal(t, "4 servings", draft.Servings)
	assert.Equal(t, "PT15M", draft.PrepTime)
	assert.Equal(t, "PT45M", draft.CookTime)
	assert.Equal(t, "PT1H", draft.TotalTime)
	assert.Equal(t, "Main Course", draft.Category)
	require.Len(t, draft.Ingredients, 3)
	assert.Equal(t, "1 kg chicken", draft.Ingredients[0].Text)
	assert.Equal(t, []string{"Marinate the chicken.", "Simmer until tender."}, draft.Instructions)
	assert.Equal(t, []string{"adobo", "chicken", "filipino"}, draft.Tags)
	assert.Equal(t, "https://x.com/img/adobo.jpg", draft.ImageURL)
	assert.Equal(t, "2024-03-01", draft.PublicationDate)
	require.NotNil(t, draft.Rating)
	assert.InDelta(t, 4.8, *draft.Rating, 0.001)
	require.NotNil(t, draft.ReviewCount)
	assert.Equal(t, 120, *draft.ReviewCount)
}

func TestStructured_ArticleMainEntity(t *testing.T) {
	doc := parseHTML(t, `<html><head><script type="application/ld+json">
	{
		"@type": "NewsArticle",
		"headline": "Best adobo in town",
		"mainEntity": {"@type": "Recipe", "name": "Pork Adobo"}
	}
	</script></head><body></body></html>`)

	draft := Structured(doc)
	require.NotNil(t, draft)
	assert.Equal(t, "Pork Adobo", draft.Name)
}

func TestStructured_ArrayPicksFirstRecipe(t *testing.T) {
	doc := parseHTML(t, `<html><head><script type="application/ld+json">
	[
		{"@type": "WebSite", "name": "Kusina"},
		{"@type": "Recipe", "name": "Pancit Canton"},
		{"@type": "Recipe", "name": "Second Recipe"}
	]
	</script></head><body></body></html>`)

	draft := Structured(doc)
	require.NotNil(t, draft)
	assert.Equal(t, "Pancit Canton", draft.Name)
}

func TestStructured_MalformedBlockIsSkipped(t *testing.T) {
	doc := parseHTML(t, `<html><head>
	<script type="application/ld+json">{not valid json</script>
	<script type="application/ld+json">{"@type": "Recipe", "name": "Lumpia"}</script>
	</head><body></body></html>`)

	draft := Structured(doc)
	require.NotNil(t, draft)
	assert.Equal(t, "Lumpia", draft.Name)
}

func TestStructured_NoQualifyingBlockReturnsNil(t *testing.T) {
	doc := parseHTML(t, `<html><head><script type="application/ld+json">
	{"@type": "WebSite", "name": "Kusina"}
	</script></head><body><h1>Not a recipe</h1></body></html>`)

	assert.Nil(t, Structured(doc))
}

func TestStructured_StringInstructionsAndListYield(t *testing.T) {
	doc := parseHTML(t, `<html><head><script type="application/ld+json">
	{
		"@type": "Recipe",
		"name": "Garlic Rice",
		"recipeYield": ["2", "2 servings"],
		"recipeInstructions": "Fry garlic. Add rice. Toss."
	}
	</script></head><body></body></html>`)

	draft := Structured(doc)
	require.NotNil(t, draft)
	assert.Equal(t, "2", draft.Servings)
	assert.Equal(t, []string{"Fry garlic. Add rice. Toss."}, draft.Instructions)
}

func TestStructured_MultiTypedNode(t *testing.T) {
	doc := parseHTML(t, `<html><head><script type="application/ld+json">
	{"@type": ["Recipe", "NewsArticle"], "name": "Bistek"}
	</script></head><body></body></html>`)

	draft := Structured(doc)
	require.NotNil(t, draft)
	assert.Equal(t, "Bistek", draft.Name)
}
