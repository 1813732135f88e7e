package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kusinaph/recipe-hunter/internal/domain"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 500
	maxInstructionLen = 500
	minInstructionLen = 5
)

var ratingRe = regexp.MustCompile(`(\d+\.?\d*)`)

// fieldExtractor produces one candidate value for a field. Waterfalls are
// ordered lists of these; the first non-empty result wins, which keeps each
// fallback independently testable.
type fieldExtractor func(doc *goquery.Document) string

// Heuristic is the extractor of last resort: it always returns a draft,
// scraped field by field from common class-name conventions. Missing
// ingredients or instructions are tolerated as empty lists; callers accept
// the draft only when it has a name.
func Heuristic(doc *goquery.Document) *domain.RecipeDraft {
	draft := &domain.RecipeDraft{
		Name:            truncate(firstOf(doc, titleWaterfall), maxTitleLen),
		Author:          firstOf(doc, authorWaterfall),
		Description:     truncate(firstOf(doc, descriptionWaterfall), maxDescriptionLen),
		Servings:        selectText(doc, `[class*="servings"], [class*="yield"]`),
		PrepTime:        selectText(doc, `[class*="prep-time"], [class*="preptime"]`),
		CookTime:        selectText(doc, `[class*="cook-time"], [class*="cooktime"]`),
		TotalTime:       selectText(doc, `[class*="total-time"], [class*="totaltime"]`),
		ImageURL:        firstOf(doc, imageWaterfall),
		PublicationDate: firstOf(doc, publishedWaterfall),
		Rating:          extractRating(doc),
	}

	doc.Find(`[class*="ingredient"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			draft.Ingredients = append(draft.Ingredients, domain.Ingredient{Text: text})
		}
	})

	doc.Find(`[class*="instruction"], [class*="step"], ol li`).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > minInstructionLen {
			draft.Instructions = append(draft.Instructions, truncate(text, maxInstructionLen))
		}
	})

	doc.Find(`[class*="tag"], [class*="category"]`).Each(func(_ int, s *goquery.Selection) {
		if tag := strings.TrimSpace(s.Text()); tag != "" {
			draft.Tags = append(draft.Tags, tag)
		}
	})

	return draft
}

var titleWaterfall = []fieldExtractor{
	func(doc *goquery.Document) string { return selectText(doc, "h1") },
	func(doc *goquery.Document) string { return selectText(doc, `h1[class*="recipe"]`) },
	func(doc *goquery.Document) string { return metaContent(doc, `meta[property="og:title"]`) },
	func(doc *goquery.Document) string { return selectText(doc, "title") },
}

var authorWaterfall = []fieldExtractor{
	func(doc *goquery.Document) string { return selectText(doc, `[class*="author"], [rel="author"]`) },
	func(doc *goquery.Document) string { return metaContent(doc, `meta[name="author"]`) },
}

var descriptionWaterfall = []fieldExtractor{
	func(doc *goquery.Document) string { return metaContent(doc, `meta[name="description"]`) },
	func(doc *goquery.Document) string { return selectText(doc, `[class*="description"], [class*="intro"]`) },
}

var imageWaterfall = []fieldExtractor{
	func(doc *goquery.Document) string { return metaContent(doc, `meta[property="og:image"]`) },
	func(doc *goquery.Document) string {
		return doc.Find(`img[class*="recipe"], img[alt*="recipe"]`).First().AttrOr("src", "")
	},
	func(doc *goquery.Document) string { return doc.Find("img").First().AttrOr("src", "") },
}

var publishedWaterfall = []fieldExtractor{
	func(doc *goquery.Document) string { return metaContent(doc, `meta[property="article:published_time"]`) },
	func(doc *goquery.Document) string { return doc.Find("time[datetime]").First().AttrOr("datetime", "") },
}

func firstOf(doc *goquery.Document, waterfall []fieldExtractor) string {
	for _, extract := range waterfall {
		if value := extract(doc); value != "" {
			return value
		}
	}
	return ""
}

func extractRating(doc *goquery.Document) *float64 {
	text := doc.Find(`[class*="rating"], [class*="stars"]`).First().Text()
	match := ratingRe.FindString(text)
	if match == "" {
		return nil
	}
	rating, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &rating
}

func selectText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).AttrOr("content", ""))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
