package fotoshare

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"path"
	"strings"

	ioutils "github.com/handiism/fotoshare-downloader/internal/io"
	"github.com/handiism/fotoshare-downloader/internal/model"
)

// resizeParams are the query keys fotoshare appends to image URLs for
// resized or recompressed variants. Removing them yields the
// original-resolution resource; every other query parameter is preserved.
var resizeParams = []string{
	"width",
	"height",
	"w",
	"h",
	"quality",
	"q",
	"resize",
	"size",
}

// NormalizeURL strips the known resize/quality query modifiers from an
// image URL, yielding the canonical original-resolution URL.
//
// Surviving query parameters keep their original order and encoding, so
// the function is pure and deterministic: the same input always produces
// the same output, which is what makes the filename-based resume check
// correct across runs.
//
// Example:
//
//	NormalizeURL("https://cdn.fotoshare.co/p/img.jpg?width=200&v=3")
//	// "https://cdn.fotoshare.co/p/img.jpg?v=3"
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	if u.RawQuery != "" {
		// Filter the raw query string rather than round-tripping it
		// through url.Values, which would re-sort and re-encode the
		// parameters we mean to leave alone.
		var kept []string
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" || isResizeParam(pair) {
				continue
			}
			kept = append(kept, pair)
		}
		u.RawQuery = strings.Join(kept, "&")
	}

	return u.String(), nil
}

// isResizeParam reports whether a raw key=value pair carries one of the
// resize modifier keys.
func isResizeParam(pair string) bool {
	key := pair
	if i := strings.IndexByte(pair, '='); i >= 0 {
		key = pair[:i]
	}
	if decoded, err := url.QueryUnescape(key); err == nil {
		key = decoded
	}

	for _, param := range resizeParams {
		if key == param {
			return true
		}
	}
	return false
}

// FileNameFor derives a filesystem-safe filename from the final path
// segment of a normalized URL.
//
// Returns an empty string when the URL has no usable path segment; the
// caller then falls back to HashFileName.
func FileNameFor(normalizedURL string) string {
	u, err := url.Parse(normalizedURL)
	if err != nil {
		return ""
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return ""
	}

	return ioutils.SanitizeFileName(name)
}

// HashFileName builds a filename from a hash of the URL, used when the
// path segment is empty or collides with another image in the album.
//
// The extension is taken from the URL path when present so image viewers
// still recognize the file type.
func HashFileName(normalizedURL string) string {
	sum := sha1.Sum([]byte(normalizedURL))
	name := hex.EncodeToString(sum[:])[:16]

	ext := ".jpg"
	if u, err := url.Parse(normalizedURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" {
			ext = e
		}
	}

	return name + ext
}

// BuildReferences turns the raw URLs discovered by the extractor into
// ImageReferences with normalized URLs and unique target filenames.
//
// Raw URLs that normalize to the same original-resolution URL collapse
// into one reference (first occurrence wins, extraction order preserved).
// Filename collisions within the album fall back to hash-based names so
// each reference maps to a unique file.
func BuildReferences(rawURLs []string, outputDir string) []*model.ImageReference {
	seen := make(map[string]struct{}, len(rawURLs))
	used := make(map[string]struct{}, len(rawURLs))
	refs := make([]*model.ImageReference, 0, len(rawURLs))

	for _, raw := range rawURLs {
		normalized, err := NormalizeURL(raw)
		if err != nil {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		name := FileNameFor(normalized)
		if _, taken := used[name]; name == "" || taken {
			name = HashFileName(normalized)
		}
		used[name] = struct{}{}

		refs = append(refs, model.NewImageReference(raw, normalized, name, outputDir))
	}

	return refs
}
