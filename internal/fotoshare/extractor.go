package fotoshare

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/handiism/fotoshare-downloader/internal/http"
)

// ErrNoImages is returned when no image URLs can be found on an album page.
//
// This typically occurs when:
//   - The album is empty
//   - The URL is not a fotoshare album page
//   - The site's markup has changed and the selectors below need updating
var ErrNoImages = errors.New("no images found on album page")

// fullResAttrs are the attributes fotoshare uses for full-resolution image
// URLs on <img> elements, in preference order.
var fullResAttrs = []string{
	"data-full",     // preferred attr used by the viewer when downloads are allowed
	"data-original", // seen on some templates
	"data-src",      // lazy-loaded images
	"src",           // fallback
}

var (
	imageURLPattern  = regexp.MustCompile(`(?i)\.(?:jpe?g|png|gif)(?:\?|$)`)
	photoPagePattern = regexp.MustCompile(`/p/\w+`)
)

// Extractor discovers image URLs on fotoshare.co album pages.
//
// All knowledge of the site's markup conventions lives here, so a markup
// change only ever touches this package. Extraction handles two cases:
//
//  1. Album pages that reference full images directly from <a> and <img>
//     elements
//  2. Thumbnail-only albums, where each /p/<id> photo page is followed to
//     find its high-resolution image
//
// The returned URLs are absolute, in document order, with duplicates
// removed (first occurrence wins).
//
// Example usage:
//
//	ext := fotoshare.NewExtractor(client)
//	urls, err := ext.ExtractImageURLs(ctx, "https://fotoshare.co/i/ABC123")
//	if errors.Is(err, fotoshare.ErrNoImages) {
//	    // empty album or changed markup
//	}
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an Extractor that fetches pages through client,
// carrying whatever session the client holds.
func NewExtractor(client *http.Client) *Extractor {
	return &Extractor{client: client}
}

// SiteName identifies the site this extractor understands.
func (e *Extractor) SiteName() string {
	return "fotoshare"
}

// ExtractImageURLs fetches the album page and returns every candidate
// image URL found in it.
//
// Returns ErrNoImages when neither the album page nor its photo pages
// yield any image URL, and a wrapped fetch/parse error when the page
// itself is unreachable.
func (e *Extractor) ExtractImageURLs(ctx context.Context, albumURL string) ([]string, error) {
	htmlContent, err := e.client.GetString(ctx, albumURL)
	if err != nil {
		return nil, fmt.Errorf("fetching album page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing album page: %w", err)
	}

	base, err := url.Parse(albumURL)
	if err != nil {
		return nil, fmt.Errorf("invalid album URL: %w", err)
	}

	urls := e.collectDirect(doc, base)

	// Thumbnail-only albums expose no full images on the album page;
	// each photo page has to be visited instead.
	if len(urls) == 0 {
		urls = e.collectFromPhotoPages(ctx, doc, base)
	}

	if len(urls) == 0 {
		return nil, ErrNoImages
	}

	return urls, nil
}

// collectDirect gathers image URLs referenced directly by <a> and <img>
// elements on the album page.
func (e *Extractor) collectDirect(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]struct{})
	var urls []string

	doc.Find("a, img").Each(func(_ int, sel *goquery.Selection) {
		var candidates []string

		switch goquery.NodeName(sel) {
		case "a":
			if href, ok := sel.Attr("href"); ok {
				candidates = append(candidates, href)
			}
		case "img":
			for _, attr := range fullResAttrs {
				if src, ok := sel.Attr(attr); ok {
					candidates = append(candidates, src)
				}
			}
		}

		for _, candidate := range candidates {
			abs, ok := resolveImageURL(base, candidate)
			if !ok {
				continue
			}
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}
			urls = append(urls, abs)
		}
	})

	return urls
}

// collectFromPhotoPages follows each /p/<id> photo page linked from the
// album page and extracts its first full image.
//
// Individual photo pages that fail to fetch or parse are skipped; a
// thumbnail page being down should not abort discovery of the rest.
func (e *Extractor) collectFromPhotoPages(ctx context.Context, doc *goquery.Document, base *url.URL) []string {
	var pages []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !photoPagePattern.MatchString(href) {
			return
		}
		if abs, err := base.Parse(href); err == nil {
			pages = append(pages, abs.String())
		}
	})

	seen := make(map[string]struct{})
	var urls []string

	for _, pageURL := range pages {
		pageHTML, err := e.client.GetString(ctx, pageURL)
		if err != nil {
			continue
		}

		pageDoc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
		if err != nil {
			continue
		}

		pageBase, err := url.Parse(pageURL)
		if err != nil {
			continue
		}

		pageDoc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			src, _ := sel.Attr("src")
			abs, ok := resolveImageURL(pageBase, src)
			if !ok {
				return true // keep looking
			}
			if _, dup := seen[abs]; !dup {
				seen[abs] = struct{}{}
				urls = append(urls, abs)
			}
			return false
		})
	}

	return urls
}

// resolveImageURL filters candidate to image resources and resolves it
// against base, returning the absolute URL.
func resolveImageURL(base *url.URL, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || !imageURLPattern.MatchString(candidate) {
		return "", false
	}

	abs, err := base.Parse(candidate)
	if err != nil {
		return "", false
	}

	return abs.String(), true
}
