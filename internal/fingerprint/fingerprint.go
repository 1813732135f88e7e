package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/kusinaph/recipe-hunter/internal/domain"
)

// ReviewThreshold flags a fingerprint pair for manual merge review. The
// duplicate-review surface is tuned to this value; do not change it without
// re-reviewing the flagged set.
const ReviewThreshold = 0.7

// Hashes are the derived content hashes of one recipe.
type Hashes struct {
	Title        string
	Ingredients  string
	Instructions string
}

// Compute hashes the three content fields of a recipe. Empty fields hash to
// the empty string so they never count as trivially identical.
func Compute(r domain.Recipe) Hashes {
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, ing.Text)
	}
	return Hashes{
		Title:        Hash(r.Title),
		Ingredients:  Hash(strings.Join(ingredients, " ")),
		Instructions: Hash(strings.Join(r.Instructions, " ")),
	}
}

// Hash returns the hex MD5 of the lower-cased, whitespace-stripped text.
func Hash(text string) string {
	stripped := strings.Join(strings.Fields(strings.ToLower(text)), "")
	if stripped == "" {
		return ""
	}
	sum := md5.Sum([]byte(stripped))
	return hex.EncodeToString(sum[:])
}

// Similarity scores two hashes in [0,1]. Identical hashes short-circuit to
// exactly 1.0; otherwise the score is the normalized edit distance over the
// hash strings themselves. This is deliberately a cheap duplicate estimate,
// not a content diff.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

func levenshtein(a, b string) int {
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
