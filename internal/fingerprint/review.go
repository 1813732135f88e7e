package fingerprint

import (
	"strings"

	"github.com/kusinaph/recipe-hunter/internal/domain"
)

// WeightedReviewScore is a cross-field score used to annotate the duplicate
// review listing: title edit distance (0.4), exact author match (0.2),
// ingredient Jaccard overlap (0.3) and tag Jaccard overlap (0.1), clamped to
// 1. It never changes which fingerprints are flagged; Similarity over the
// hashes does that.
func WeightedReviewScore(a, b domain.Recipe) float64 {
	var score float64

	titleA := strings.ToLower(a.Title)
	titleB := strings.ToLower(b.Title)
	maxLen := len(titleA)
	if len(titleB) > maxLen {
		maxLen = len(titleB)
	}
	if maxLen > 0 {
		score += (1 - float64(levenshtein(titleA, titleB))/float64(maxLen)) * 0.4
	}

	if a.Author != "" && b.Author != "" && strings.EqualFold(a.Author, b.Author) {
		score += 0.2
	}

	ingA := ingredientNames(a)
	ingB := ingredientNames(b)
	if len(ingA) > 0 && len(ingB) > 0 {
		score += jaccard(ingA, ingB) * 0.3
	}

	if len(a.Tags) > 0 && len(b.Tags) > 0 {
		score += jaccard(lowered(a.Tags), lowered(b.Tags)) * 0.1
	}

	if score > 1 {
		return 1
	}
	return score
}

func ingredientNames(r domain.Recipe) []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, strings.ToLower(ing.Text))
	}
	return names
}

func lowered(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}

func jaccard(a, b []string) float64 {
	union := make(map[string]struct{}, len(a)+len(b))
	inA := make(map[string]struct{}, len(a))
	for _, s := range a {
		union[s] = struct{}{}
		inA[s] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	var intersection int
	for _, s := range b {
		union[s] = struct{}{}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := inA[s]; ok {
			intersection++
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}
