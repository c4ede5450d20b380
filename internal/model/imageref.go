package model

import (
	"path/filepath"
)

// ImageReference is one image discovered in an album.
//
// It pairs the URL as found in the page markup with the derived
// original-resolution URL and the target file path. References are
// immutable once created; the target filename is a pure function of the
// normalized URL, which is what makes resumed runs skip completed files
// without any bookkeeping state.
type ImageReference struct {
	// SourceURL is the URL exactly as discovered in the album page.
	SourceURL string

	// URL is the original-resolution URL with resize/quality query
	// modifiers removed. This is the URL that gets downloaded.
	URL string

	// FileName is the filesystem-safe target filename.
	FileName string

	// Path is the full target path inside the output directory.
	Path string
}

// NewImageReference creates an ImageReference with its computed target path.
//
// The fileName must already be sanitized and unique within the album;
// deriving it from the URL is the normalizer's job.
func NewImageReference(sourceURL, normalizedURL, fileName, outputDir string) *ImageReference {
	ref := &ImageReference{
		SourceURL: sourceURL,
		URL:       normalizedURL,
		FileName:  fileName,
	}

	ref.Path = ref.parseFilePath(outputDir)

	return ref
}

// parseFilePath computes the full target path for this image.
func (r *ImageReference) parseFilePath(outputDir string) string {
	filePath := filepath.Join(outputDir, r.FileName)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(filePath) >= 260 {
		ext := filepath.Ext(r.FileName)
		maxLen := 259 - len(outputDir) - len(ext) - 1
		if maxLen > 0 && maxLen < len(r.FileName)-len(ext) {
			filePath = filepath.Join(outputDir, r.FileName[:maxLen]+ext)
		}
	}

	return filePath
}
