// Package http provides the session-carrying HTTP client for fotoshare.co.
//
// The Client in this package handles:
//   - Optional sign-in (one login POST, cookies reused afterwards)
//   - User-Agent headers
//   - Streaming image downloads with atomic-rename writes
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(userAgent)
//
//	// Sign in for private albums; returns *http.AuthError on rejection
//	err := client.Login(ctx, loginURL, email, password)
//
//	// Fetch the album HTML page
//	html, err := client.GetString(ctx, albumURL)
//
//	// Download an image with progress callback
//	n, err := client.DownloadFile(ctx, imageURL, "/album/photo.jpg",
//	    func(written, total int64) { /* update UI */ })
//
// # Sessions
//
// The cookie jar is created with the Client and discarded with it; the
// authenticated session never outlives the process.
package http
