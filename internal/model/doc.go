// Package model defines the core data structures used throughout
// the fotoshare-downloader application.
//
// # Album
//
// Album represents a fotoshare.co album with its computed output directory:
//
//	album, err := model.NewAlbum("https://fotoshare.co/i/ABC123", pathConfig)
//	fmt.Println(album.ID)        // "ABC123"
//	fmt.Println(album.OutputDir) // Where images will be saved
//
// # ImageReference
//
// ImageReference pairs a discovered image URL with its normalized
// original-resolution URL and target file path:
//
//	ref := model.NewImageReference(srcURL, fullResURL, "photo.jpg", album.OutputDir)
//	fmt.Println(ref.Path) // Full path where the image will be saved
//
// The target filename is a pure function of the normalized URL, which is
// what makes resumed runs correct: existence of the final file is the only
// resumption record.
//
// # Results
//
// DownloadResult and Summary describe per-task outcomes and the final
// {skipped, downloaded, failed} report.
package model
