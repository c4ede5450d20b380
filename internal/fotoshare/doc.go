// Package fotoshare knows how to find original-resolution image URLs on
// fotoshare.co album pages.
//
// It is the single concrete implementation of the download.Extractor
// interface. The coupling to the site's markup (which attributes carry
// full-image URLs, what a photo page link looks like) is deliberately
// confined to this package so a markup change never touches scheduling or
// download logic.
//
// # Extraction
//
//	ext := fotoshare.NewExtractor(client)
//	rawURLs, err := ext.ExtractImageURLs(ctx, albumURL)
//
// # Normalization
//
// NormalizeURL strips resize/quality query modifiers to obtain the
// original-resolution URL, and BuildReferences derives unique,
// deterministic target filenames:
//
//	refs := fotoshare.BuildReferences(rawURLs, album.OutputDir)
package fotoshare
