// Package ioutils provides file system and image utilities.
//
// This package contains:
//   - Atomic file writes (temp file + rename on commit)
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Optional image resizing
//
// # Atomic Writes
//
// Downloads are streamed to a ".part" sibling of the target and renamed
// into place only when the write completes:
//
//	n, err := ioutils.WriteStreamAtomic("/album/photo.jpg", body)
//
// This is what makes the skip-if-exists resume check trustworthy: a file
// under its final name is always complete, and an interrupted run leaves
// only .part artifacts behind.
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("photo: 1/2.jpg") // "photo_ 1_2.jpg"
//
// # Image Processing
//
// ImageService scales downloads down to a maximum dimension when
// configured, preserving the source format:
//
//	svc := ioutils.NewImageService()
//	smaller, _ := svc.ResizeToFit(imageData, 2048)
package ioutils
