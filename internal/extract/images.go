package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kusinaph/recipe-hunter/internal/domain"
	"github.com/kusinaph/recipe-hunter/pkg/urlutil"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// ImageSet is the result of resolving a page's imagery: one primary
// candidate, a fixed attribution line, and the validated gallery.
type ImageSet struct {
	Primary     string
	Attribution string
	All         []domain.ImageCandidate
}

// ResolveImages finds a primary image and the candidate gallery for a recipe
// page. Validation is purely URL-shape based; no network round-trips, so a
// crawl never amplifies its own request rate here.
func ResolveImages(doc *goquery.Document, pageURL, sourceSite string) ImageSet {
	attribution := "Image courtesy of " + urlutil.Hostname(sourceSite)
	set := ImageSet{Attribution: attribution}

	if ogImage := metaContent(doc, `meta[property="og:image"]`); validImageURL(ogImage) {
		set.Primary = ogImage
	}
	if set.Primary == "" {
		src := doc.Find(`img[class*="recipe"], img[alt*="recipe"]`).First().AttrOr("src", "")
		if resolved, ok := urlutil.Resolve(src, pageURL); ok && validImageURL(resolved) {
			set.Primary = resolved
		}
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, exists := s.Attr("src")
		if !exists {
			return
		}
		resolved, ok := urlutil.Resolve(src, pageURL)
		if !ok || !validImageURL(resolved) {
			return
		}
		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if alt == "" {
			alt = "Recipe image"
		}
		set.All = append(set.All, domain.ImageCandidate{
			URL:         resolved,
			AltText:     alt,
			Attribution: attribution,
		})
	})

	return set
}

// validImageURL accepts absolute URLs whose path carries a known image
// extension, or contains "image" for extension-less CDN paths.
func validImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return strings.Contains(path, "image")
}
