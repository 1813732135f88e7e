package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveImages_OgImageWinsPrimary(t *testing.T) {
	doc := parseHTML(t, `<html><head>
	<meta property="og:image" content="https://cdn.x.com/hero.jpg">
	</head><body>
	<img class="recipe-photo" src="/img/step1.png" alt="step one">
	<img src="//cdn.x.com/extra.webp">
	<img src="/assets/icon.svg">
	</body></html>`)

	set := ResolveImages(doc, "https://x.com/recipe/adobo", "https://x.com")

	assert.Equal(t, "https://cdn.x.com/hero.jpg", set.Primary)
	assert.Equal(t, "Image courtesy of x.com", set.Attribution)

	require.Len(t, set.All, 2)
	assert.Equal(t, "https://x.com/img/step1.png", set.All[0].URL)
	assert.Equal(t, "step one", set.All[0].AltText)
	assert.Equal(t, "Image courtesy of x.com", set.All[0].Attribution)
	assert.Equal(t, "https://cdn.x.com/extra.webp", set.All[1].URL)
	assert.Equal(t, "Recipe image", set.All[1].AltText)
}

func TestResolveImages_FallsBackToRecipeHintedImage(t *testing.T) {
	doc := parseHTML(t, `<html><body>
	<img alt="recipe photo" src="/img/adobo.jpg">
	</body></html>`)

	set := ResolveImages(doc, "https://x.com/recipe/adobo", "https://x.com")
	assert.Equal(t, "https://x.com/img/adobo.jpg", set.Primary)
}

func TestResolveImages_NoCandidates(t *testing.T) {
	doc := parseHTML(t, `<html><body><p>text only</p></body></html>`)

	set := ResolveImages(doc, "https://x.com/recipe/adobo", "https://x.com")
	assert.Empty(t, set.Primary)
	assert.Empty(t, set.All)
	assert.Equal(t, "Image courtesy of x.com", set.Attribution)
}

func TestValidImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://x.com/a.jpg", true},
		{"https://x.com/a.JPEG", true},
		{"https://x.com/cdn/image/12345", true},
		{"https://x.com/a.svg", false},
		{"/relative/a.jpg", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, validImageURL(tt.url), "validImageURL(%q)", tt.url)
	}
}
