package model

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Album represents one fotoshare.co album to download.
//
// An Album is resolved once at program start from the user-supplied URL.
// The output directory is computed from PathConfig.OutputPath, which may
// contain the {album} placeholder:
//
//	cfg := &PathConfig{OutputPath: "./{album}"}
//	album, _ := model.NewAlbum("https://fotoshare.co/i/ABC123", cfg)
//	// album.ID = "ABC123", album.OutputDir = "./ABC123"
type Album struct {
	// URL is the album page URL as supplied by the user.
	URL string

	// ID is the album identifier, derived from the last URL path segment.
	ID string

	// Private reports whether credentials were supplied for this album.
	Private bool

	// OutputDir is the computed directory where images will be saved.
	OutputDir string
}

// PathConfig holds path formatting settings for albums.
type PathConfig struct {
	// OutputPath is the output directory template.
	// The {album} placeholder is replaced with the album ID.
	// Example: "./{album}"
	OutputPath string
}

// NewAlbum creates an Album from the user-supplied URL with a computed
// output directory.
//
// The album ID is the last non-empty path segment of the URL, sanitized
// for filesystem use. Returns an error if the URL cannot be parsed or is
// not an absolute http/https URL.
func NewAlbum(rawURL string, cfg *PathConfig) (*Album, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid album URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("album URL must be http or https, got %q", rawURL)
	}

	album := &Album{
		URL: rawURL,
		ID:  albumID(u),
	}
	album.OutputDir = album.parseOutputDir(cfg)

	return album, nil
}

// albumID derives the album identifier from the URL path.
//
// For fotoshare album URLs like https://fotoshare.co/i/ABC123 this is
// "ABC123". Falls back to the host, then to "album", when the path is empty.
func albumID(u *url.URL) string {
	segment := path.Base(strings.TrimRight(u.Path, "/"))
	if segment == "." || segment == "/" || segment == "" {
		segment = u.Host
	}
	if segment == "" {
		segment = "album"
	}
	return sanitizeFileName(segment)
}

// parseOutputDir computes the output directory from the config template.
func (a *Album) parseOutputDir(cfg *PathConfig) string {
	dir := strings.ReplaceAll(cfg.OutputPath, "{album}", a.ID)

	// Limit path length for cross-platform compatibility (Windows MAX_PATH)
	if len(dir) >= 248 {
		dir = dir[:247]
	}

	return dir
}

// sanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
func sanitizeFileName(name string) string {
	// Replace invalid path/file characters
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}
