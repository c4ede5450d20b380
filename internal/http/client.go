package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	ioutils "github.com/handiism/fotoshare-downloader/internal/io"
)

// AuthError indicates the remote site rejected the supplied credentials.
//
// It is fatal: the run aborts before any download is attempted.
type AuthError struct {
	// StatusCode is the HTTP status of the login response, when the
	// failure was a non-success response.
	StatusCode int

	// Reason describes the rejection when the response itself succeeded
	// but the site reported invalid credentials.
	Reason string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("authentication failed: %s", e.Reason)
	}
	return fmt.Sprintf("authentication failed: HTTP %d", e.StatusCode)
}

// Client wraps HTTP operations with fotoshare-specific configuration.
//
// Client provides:
//   - A cookie jar so the session established by Login is attached to
//     every subsequent page and image fetch
//   - A configured User-Agent header
//   - Timeout handling
//   - Streaming file downloads with atomic-rename writes
//
// Example usage:
//
//	client := NewClient(userAgent)
//
//	// Optional sign-in for private albums
//	if err := client.Login(ctx, loginURL, email, password); err != nil { ... }
//
//	// Fetch HTML content
//	html, err := client.GetString(ctx, "https://fotoshare.co/i/ABC123")
//
//	// Download an image
//	n, err := client.DownloadFile(ctx, imageURL, "/album/photo.jpg", nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with a fresh cookie jar.
//
// The session held in the jar lives exactly as long as the Client; nothing
// is persisted across process runs.
func NewClient(userAgent string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Jar:     jar,
		},
		userAgent: userAgent,
	}
}

// Login performs the sign-in POST so private albums become reachable.
//
// The session cookies set by the response are retained in the client's jar
// and attached to all subsequent requests. Returns an *AuthError if the
// site responds with a non-success status or reports the credentials as
// invalid in the response body.
func (c *Client) Login(ctx context.Context, loginURL, email, password string) error {
	form := url.Values{
		"email":    {email},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &AuthError{StatusCode: resp.StatusCode}
	}

	// The site answers 200 with an error page when the credentials are
	// wrong, so the body has to be inspected as well.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("login response: %w", err)
	}
	if strings.Contains(strings.ToLower(string(body)), "invalid") {
		return &AuthError{Reason: "credentials rejected"}
	}

	return nil
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header and the session
// cookies. Returns an error if the request fails, the response status is
// not 200 OK, or reading the body fails.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(body)
}

// GetString performs a GET request and returns the response body as a
// string. This is a convenience wrapper around Get for fetching HTML.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Fetch performs a GET request and returns the response body as a stream
// together with the Content-Length (-1 when unknown).
//
// The caller must close the returned reader. Use this for image payloads
// so they stream to disk instead of being buffered in memory.
func (c *Client) Fetch(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return resp.Body, resp.ContentLength, nil
}

// ProgressWriter wraps a writer to track download progress.
//
// Provide an OnUpdate callback to observe bytes as they are written:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// DownloadFile streams a URL to destPath with the atomic-rename write
// discipline and returns the number of bytes written.
//
// The payload is written to destPath + ".part" and renamed into place only
// when the body has been copied completely, so an interrupted download
// never leaves a file under its final name.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes);
//     pass nil to disable progress tracking
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	body, total, err := c.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	file, err := ioutils.NewAtomicFile(destPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    total,
			OnUpdate: onProgress,
		}
	}

	n, err := io.Copy(writer, body)
	if err != nil {
		return n, err
	}

	return n, file.Commit()
}
