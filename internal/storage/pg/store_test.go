package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kusinaph/recipe-hunter/internal/domain"
	pkgtesting "github.com/kusinaph/recipe-hunter/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx     context.Context
	testPool    *ConnectionPool
	testRecipes *RecipeStore
	testPrints  *FingerprintStore
	testLogs    *CrawlLogStore
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "recipes_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}
	defer testcontainers.TerminateContainer(pg.Container)

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}
	defer testPool.Close()

	testRecipes = NewRecipeStore(testPool)
	testPrints = NewFingerprintStore(testPool)
	testLogs = NewCrawlLogStore(testPool)

	os.Exit(m.Run())
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE recipes, crawl_logs CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func adoboDraft() *domain.RecipeDraft {
	rating := 4.8
	reviews := 120
	return &domain.RecipeDraft{
		Name:        "Chicken Adobo",
		Author:      "Vanjo Merano",
		Description: "Classic braised chicken in soy sauce and vinegar",
		Servings:    "4",
		PrepTime:    "PT10M",
		CookTime:    "PT40M",
		TotalTime:   "PT50M",
		Ingredients: []domain.Ingredient{
			{Text: "2 lbs chicken"},
			{Text: "1/2 cup soy sauce"},
			{Text: "1/4 cup vinegar"},
		},
		Instructions: []string{
			"Marinate the chicken in soy sauce.",
			"Simmer with vinegar until tender.",
		},
		Tags:            []string{"filipino", "chicken"},
		Rating:          &rating,
		ReviewCount:     &reviews,
		PrimaryImageURL: "https://example.com/adobo.jpg",
		Images: []domain.ImageCandidate{
			{URL: "https://example.com/adobo.jpg", AltText: "adobo", Attribution: "Image courtesy of example.com"},
			{URL: "https://example.com/adobo-2.jpg", Attribution: "Image courtesy of example.com"},
		},
		PublicationDate: "2024-03-01",
	}
}

func TestRecipeStore_Upsert_CreatesThenUpdates(t *testing.T) {
	truncateTables(t)

	sourceURL := "https://example.com/recipes/chicken-adobo"

	first, created, err := testRecipes.Upsert(testCtx, adoboDraft(), sourceURL, "https://example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Chicken Adobo", first.Title)
	assert.Equal(t, domain.RecipeDefaultCategory, first.Category)
	assert.Equal(t, domain.RecipeStatusActive, first.Status)

	draft := adoboDraft()
	draft.Description = "Updated description"
	second, created, err := testRecipes.Upsert(testCtx, draft, sourceURL, "https://example.com")
	require.NoError(t, err)

	assert.False(t, created, "re-crawl of the same source URL must update, not insert")
	assert.Equal(t, first.ID, second.ID, "identity must be stable across re-crawls")
	assert.WithinDuration(t, first.CrawledAt, second.CrawledAt, time.Millisecond, "crawled_at must survive updates")
	assert.False(t, second.LastUpdatedAt.Before(first.LastUpdatedAt))

	stored, err := testRecipes.GetBySourceURL(testCtx, sourceURL)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Updated description", stored.Description)
}

func TestRecipeStore_Upsert_ReplacesImageSet(t *testing.T) {
	truncateTables(t)

	sourceURL := "https://example.com/recipes/chicken-adobo"
	recipe, _, err := testRecipes.Upsert(testCtx, adoboDraft(), sourceURL, "https://example.com")
	require.NoError(t, err)

	images, err := testRecipes.Images(testCtx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 0, images[0].Position)
	assert.Equal(t, "https://example.com/adobo.jpg", images[0].ImageURL)

	draft := adoboDraft()
	draft.Images = draft.Images[:1]
	_, _, err = testRecipes.Upsert(testCtx, draft, sourceURL, "https://example.com")
	require.NoError(t, err)

	images, err = testRecipes.Images(testCtx, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, images, 1, "re-crawl must replace the gallery, not append")
}

func TestRecipeStore_GetBySourceURL_RoundTrip(t *testing.T) {
	truncateTables(t)

	sourceURL := "https://example.com/recipes/chicken-adobo"
	_, _, err := testRecipes.Upsert(testCtx, adoboDraft(), sourceURL, "https://example.com")
	require.NoError(t, err)

	stored, err := testRecipes.GetBySourceURL(testCtx, sourceURL)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, []domain.Ingredient{
		{Text: "2 lbs chicken"},
		{Text: "1/2 cup soy sauce"},
		{Text: "1/4 cup vinegar"},
	}, stored.Ingredients, "ingredient order must survive the round trip")
	assert.Equal(t, []string{"filipino", "chicken"}, stored.Tags)
	require.NotNil(t, stored.Rating)
	assert.InDelta(t, 4.8, *stored.Rating, 0.001)
	require.NotNil(t, stored.ReviewCount)
	assert.Equal(t, 120, *stored.ReviewCount)
	assert.False(t, stored.IsFeatured)
}

func TestRecipeStore_GetBySourceURL_Missing(t *testing.T) {
	truncateTables(t)

	stored, err := testRecipes.GetBySourceURL(testCtx, "https://example.com/recipes/nope")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestFingerprintStore_UpsertAndListOthers(t *testing.T) {
	truncateTables(t)

	a, _, err := testRecipes.Upsert(testCtx, adoboDraft(), "https://example.com/recipes/adobo-a", "https://example.com")
	require.NoError(t, err)
	b, _, err := testRecipes.Upsert(testCtx, adoboDraft(), "https://example.com/recipes/adobo-b", "https://example.com")
	require.NoError(t, err)

	require.NoError(t, testPrints.Upsert(testCtx, &domain.Fingerprint{
		ID: uuid.New(), RecipeID: a.ID, TitleHash: "aaa", IngredientHash: "bbb", InstructionHash: "ccc",
	}))
	require.NoError(t, testPrints.Upsert(testCtx, &domain.Fingerprint{
		ID: uuid.New(), RecipeID: b.ID, TitleHash: "aaa", IngredientHash: "bbb", InstructionHash: "ddd",
	}))

	others, err := testPrints.ListOthers(testCtx, a.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, b.ID, others[0].RecipeID)

	// Recomputing b's fingerprint must stay one row per recipe.
	require.NoError(t, testPrints.Upsert(testCtx, &domain.Fingerprint{
		ID: uuid.New(), RecipeID: b.ID, TitleHash: "eee", IngredientHash: "fff", InstructionHash: "ggg",
	}))
	others, err = testPrints.ListOthers(testCtx, a.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "eee", others[0].TitleHash)
}

func TestFingerprintStore_ListForReview(t *testing.T) {
	truncateTables(t)

	a, _, err := testRecipes.Upsert(testCtx, adoboDraft(), "https://example.com/recipes/adobo-a", "https://example.com")
	require.NoError(t, err)
	b, _, err := testRecipes.Upsert(testCtx, adoboDraft(), "https://example.com/recipes/adobo-b", "https://example.com")
	require.NoError(t, err)

	matched := a.ID
	require.NoError(t, testPrints.Upsert(testCtx, &domain.Fingerprint{
		ID: uuid.New(), RecipeID: b.ID, TitleHash: "aaa", IngredientHash: "bbb", InstructionHash: "ccc",
		SimilarityScore: 0.92, MatchedRecipeID: &matched,
	}))
	require.NoError(t, testPrints.Upsert(testCtx, &domain.Fingerprint{
		ID: uuid.New(), RecipeID: a.ID, TitleHash: "aaa", IngredientHash: "bbb", InstructionHash: "ccc",
		SimilarityScore: 0.1,
	}))

	candidates, err := testPrints.ListForReview(testCtx, 0.7, 1, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1, "only scores above the threshold are flagged")

	c := candidates[0]
	assert.Equal(t, b.ID, c.Recipe.ID)
	require.NotNil(t, c.Matched)
	assert.Equal(t, a.ID, c.Matched.ID)
	assert.Equal(t, "Chicken Adobo", c.Matched.Title)
	assert.Len(t, c.Matched.Ingredients, 3)
}

func TestCrawlLogStore_ListAndSummary(t *testing.T) {
	truncateTables(t)

	now := time.Now()
	older := &domain.CrawlLog{
		ID: uuid.New(), SiteURL: "https://example.com", Status: domain.CrawlStatusError,
		Errors:    []domain.CrawlError{{Context: "https://example.com", Error: "discovery failed"}},
		StartTime: now.Add(-48 * time.Hour), EndTime: now.Add(-48 * time.Hour).Add(time.Minute), DurationMs: 60_000,
	}
	newer := &domain.CrawlLog{
		ID: uuid.New(), SiteURL: "https://example.com", Status: domain.CrawlStatusSuccess,
		RecipesFound: 5, RecipesNew: 3, RecipesUpdated: 2,
		StartTime: now.Add(-time.Hour), EndTime: now, DurationMs: 3_600_000,
	}
	require.NoError(t, testLogs.Insert(testCtx, older))
	require.NoError(t, testLogs.Insert(testCtx, newer))

	logs, total, err := testLogs.List(testCtx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	assert.Equal(t, newer.ID, logs[0].ID, "logs must come back newest first")
	assert.Equal(t, "discovery failed", logs[1].Errors[0].Error)

	summary, err := testLogs.Summary(testCtx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRuns)
	assert.Equal(t, 2, summary.RecentRuns)
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
}
