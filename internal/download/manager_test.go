package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/handiism/fotoshare-downloader/internal/config"
	"github.com/handiism/fotoshare-downloader/internal/fotoshare"
	"github.com/handiism/fotoshare-downloader/internal/http"
)

// albumServer serves an album page plus image payloads and counts image
// fetches, so tests can assert how much network traffic a run caused.
type albumServer struct {
	*httptest.Server
	imageRequests atomic.Int32
}

func newAlbumServer(t *testing.T, albumHTML string, imageDelay time.Duration, maxConcurrent *atomic.Int32) *albumServer {
	t.Helper()

	srv := &albumServer{}
	var inFlight atomic.Int32

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/i/album", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte(albumHTML))
	})
	mux.HandleFunc("/photos/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		srv.imageRequests.Add(1)

		if maxConcurrent != nil {
			n := inFlight.Add(1)
			for {
				old := maxConcurrent.Load()
				if n <= old || maxConcurrent.CompareAndSwap(old, n) {
					break
				}
			}
			defer inFlight.Add(-1)
		}
		if imageDelay > 0 {
			time.Sleep(imageDelay)
		}

		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(nethttp.StatusNotFound)
			return
		}
		fmt.Fprintf(w, "payload of %s", r.URL.Path)
	})

	srv.Server = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()

	settings := config.DefaultSettings()
	settings.OutputPath = filepath.Join(t.TempDir(), "{album}")
	settings.Workers = 4
	settings.DownloadMaxRetries = 1
	settings.DownloadRetryCooldown = 0
	return settings
}

const threeImageAlbum = `<html><body>
	<img src="/photos/one.jpg?width=200">
	<img src="/photos/two.jpg">
	<a href="/photos/three.jpg">download</a>
</body></html>`

func runManager(t *testing.T, settings *config.Settings, albumURL string) *Manager {
	t.Helper()

	manager := NewManager(settings, nil)
	if err := manager.Initialize(context.Background(), albumURL); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := manager.StartDownloads(context.Background()); err != nil {
		t.Fatalf("StartDownloads: %v", err)
	}
	return manager
}

func TestManager_DownloadsAlbum(t *testing.T) {
	srv := newAlbumServer(t, threeImageAlbum, 0, nil)
	settings := testSettings(t)

	manager := runManager(t, settings, srv.URL+"/i/album")

	summary := manager.Summary()
	if summary.Skipped != 0 || summary.Downloaded != 3 || summary.Failed != 0 {
		t.Errorf("summary = %d/%d/%d, want 0/3/0",
			summary.Skipped, summary.Downloaded, summary.Failed)
	}

	outputDir := manager.Album().OutputDir
	for _, name := range []string{"one.jpg", "two.jpg", "three.jpg"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("expected %s in output dir: %v", name, err)
		}
	}

	// The width modifier must be stripped before fetching
	for _, ref := range manager.References() {
		if strings.Contains(ref.URL, "width=") {
			t.Errorf("reference URL %q still carries a resize modifier", ref.URL)
		}
	}

	entries, _ := os.ReadDir(outputDir)
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".part") {
			t.Errorf("leftover temp file %s after a clean run", entry.Name())
		}
	}
}

func TestManager_SecondRunSkipsAllWithoutFetching(t *testing.T) {
	srv := newAlbumServer(t, threeImageAlbum, 0, nil)
	settings := testSettings(t)

	runManager(t, settings, srv.URL+"/i/album")
	if got := srv.imageRequests.Load(); got != 3 {
		t.Fatalf("first run fetched %d images, want 3", got)
	}

	second := runManager(t, settings, srv.URL+"/i/album")

	if got := srv.imageRequests.Load(); got != 3 {
		t.Errorf("second run fetched %d more images, want 0", got-3)
	}

	summary := second.Summary()
	if summary.Skipped != 3 || summary.Downloaded != 0 || summary.Failed != 0 {
		t.Errorf("summary = %d/%d/%d, want 3/0/0",
			summary.Skipped, summary.Downloaded, summary.Failed)
	}
}

func TestManager_PartialResume(t *testing.T) {
	srv := newAlbumServer(t, threeImageAlbum, 0, nil)
	settings := testSettings(t)

	// Pre-create one of the three target files
	manager := NewManager(settings, nil)
	if err := manager.Initialize(context.Background(), srv.URL+"/i/album"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	outputDir := manager.Album().OutputDir
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "two.jpg"), []byte("already here"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := manager.StartDownloads(context.Background()); err != nil {
		t.Fatalf("StartDownloads: %v", err)
	}

	summary := manager.Summary()
	if summary.Skipped != 1 || summary.Downloaded != 2 || summary.Failed != 0 {
		t.Errorf("summary = %d/%d/%d, want 1/2/0",
			summary.Skipped, summary.Downloaded, summary.Failed)
	}

	// The existing file is untouched
	data, _ := os.ReadFile(filepath.Join(outputDir, "two.jpg"))
	if string(data) != "already here" {
		t.Error("existing file should not be re-downloaded")
	}
}

func TestManager_FailedImageDoesNotAbortSiblings(t *testing.T) {
	album := `<html><body>
		<img src="/photos/one.jpg">
		<img src="/photos/missing.jpg">
		<img src="/photos/three.jpg">
	</body></html>`

	srv := newAlbumServer(t, album, 0, nil)
	settings := testSettings(t)

	manager := runManager(t, settings, srv.URL+"/i/album")

	summary := manager.Summary()
	if summary.Downloaded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %d/%d/%d, want 0/2/1",
			summary.Skipped, summary.Downloaded, summary.Failed)
	}
	if len(summary.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(summary.Failures))
	}

	failure := summary.Failures[0]
	if !strings.Contains(failure.Ref.URL, "missing.jpg") {
		t.Errorf("failure should name the offending URL, got %q", failure.Ref.URL)
	}
	if failure.Err == nil {
		t.Error("failure should carry its reason")
	}
}

func TestManager_ConcurrencyBound(t *testing.T) {
	var album strings.Builder
	album.WriteString("<html><body>")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&album, `<img src="/photos/img%d.jpg">`, i)
	}
	album.WriteString("</body></html>")

	var maxConcurrent atomic.Int32
	srv := newAlbumServer(t, album.String(), 30*time.Millisecond, &maxConcurrent)

	settings := testSettings(t)
	settings.Workers = 2

	manager := runManager(t, settings, srv.URL+"/i/album")

	if got := manager.Summary().Downloaded; got != 8 {
		t.Errorf("downloaded %d images, want 8", got)
	}
	if got := maxConcurrent.Load(); got > 2 {
		t.Errorf("observed %d concurrent downloads, want at most 2", got)
	}
}

func TestManager_AuthFailureIsFatalBeforeAnyDownload(t *testing.T) {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/login", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("Invalid email or password"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	settings := testSettings(t)
	settings.LoginURL = srv.URL + "/login"
	settings.Email = "user@example.com"
	settings.Password = "wrong"

	manager := NewManager(settings, nil)
	err := manager.Initialize(context.Background(), srv.URL+"/i/album")

	var authErr *http.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("want *http.AuthError, got %v", err)
	}

	// Nothing may be created before authentication succeeds
	if manager.Album() != nil {
		if _, statErr := os.Stat(manager.Album().OutputDir); statErr == nil {
			t.Error("no files may be created after an auth failure")
		}
	}
}

func TestManager_EmptyAlbumIsFatal(t *testing.T) {
	srv := newAlbumServer(t, "<html><body>nothing</body></html>", 0, nil)
	settings := testSettings(t)

	manager := NewManager(settings, nil)
	err := manager.Initialize(context.Background(), srv.URL+"/i/album")
	if !errors.Is(err, fotoshare.ErrNoImages) {
		t.Fatalf("want ErrNoImages, got %v", err)
	}
}

func TestManager_ProgressEvents(t *testing.T) {
	srv := newAlbumServer(t, threeImageAlbum, 0, nil)
	settings := testSettings(t)

	var events []ProgressEvent
	manager := NewManager(settings, func(event ProgressEvent) {
		events = append(events, event)
	})
	if err := manager.Initialize(context.Background(), srv.URL+"/i/album"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	found := false
	for _, event := range events {
		if strings.Contains(event.Message, "Found 3 images") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 'Found 3 images' event, got %v", events)
	}

	completed, total, _ := manager.GetProgress()
	if completed != 0 || total != 3 {
		t.Errorf("GetProgress = %d/%d, want 0/3 before downloads", completed, total)
	}
}

func TestManager_ResizeDownloads(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 150))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/i/album", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte(`<html><body><img src="/photos/big.jpg"></body></html>`))
	})
	mux.HandleFunc("/photos/big.jpg", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write(buf.Bytes())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	settings := testSettings(t)
	settings.ResizeDownloads = true
	settings.ResizeMaxSize = 100

	manager := runManager(t, settings, srv.URL+"/i/album")

	if got := manager.Summary().Downloaded; got != 1 {
		t.Fatalf("downloaded %d, want 1", got)
	}

	f, err := os.Open(filepath.Join(manager.Album().OutputDir, "big.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding resized output: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("output is %dx%d, want 100x50", cfg.Width, cfg.Height)
	}
}

// Interface conformance is part of the package contract.
var _ Extractor = (*fotoshare.Extractor)(nil)
