package download

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/fotoshare-downloader/internal/config"
	"github.com/handiism/fotoshare-downloader/internal/fotoshare"
	"github.com/handiism/fotoshare-downloader/internal/http"
	ioutils "github.com/handiism/fotoshare-downloader/internal/io"
	"github.com/handiism/fotoshare-downloader/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Extractor is the page-scraping capability the Manager depends on.
//
// Exactly one implementation exists today (the fotoshare package); the
// interface keeps the site's markup coupling out of the scheduling logic,
// so supporting another host means writing another extractor, nothing
// more.
type Extractor interface {
	// SiteName identifies the site the extractor understands.
	SiteName() string

	// ExtractImageURLs returns the candidate image URLs found on the
	// album page, absolute, in document order, duplicates removed.
	ExtractImageURLs(ctx context.Context, albumURL string) ([]string, error)
}

// Manager coordinates an album download.
//
// Usage is two-phase: Initialize signs in (when credentials are present)
// and scrapes the album page, then StartDownloads runs the worker pool.
// Fatal conditions (authentication rejected, album unreachable, zero
// images) surface from Initialize; per-image failures during
// StartDownloads are recorded in the summary and never abort the run.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	extractor    Extractor
	imageService *ioutils.ImageService

	album *model.Album
	refs  []*model.ImageReference

	completedFiles int32
	receivedBytes  int64

	summary model.Summary
	mu      sync.Mutex

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
//
// The onProgress callback receives user-visible progress events; pass nil
// to discard them.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := http.NewClient(settings.UserAgent)

	return &Manager{
		settings:     settings,
		httpClient:   client,
		extractor:    fotoshare.NewExtractor(client),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Initialize resolves the album, optionally signs in, and scrapes the
// album page into the list of image references.
//
// Any error returned here is fatal to the run: *http.AuthError when the
// credentials were rejected, fotoshare.ErrNoImages when the album has no
// images, or a wrapped fetch error when the page is unreachable.
func (m *Manager) Initialize(ctx context.Context, albumURL string) error {
	album, err := model.NewAlbum(albumURL, m.settings.ToPathConfig())
	if err != nil {
		return err
	}
	album.Private = m.settings.HasCredentials()

	if album.Private {
		m.progress(ProgressEvent{Message: "Signing in...", Level: LevelInfo})
		if err := m.httpClient.Login(ctx, m.settings.LoginURL, m.settings.Email, m.settings.Password); err != nil {
			return err
		}
		m.progress(ProgressEvent{Message: "Signed in", Level: LevelVerbose})
	}

	m.progress(ProgressEvent{Message: "Scanning album for images...", Level: LevelInfo})

	rawURLs, err := m.extractor.ExtractImageURLs(ctx, album.URL)
	if err != nil {
		return err
	}

	m.album = album
	m.refs = fotoshare.BuildReferences(rawURLs, album.OutputDir)

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %d images in album %s", len(m.refs), album.ID),
		Level:   LevelInfo,
	})

	return nil
}

// StartDownloads runs every image task across the worker pool.
//
// At most settings.Workers downloads are in flight at once. A failed
// download is recorded and reported but does not abort sibling tasks;
// the only error returned is context cancellation or failure to create
// the output directory.
func (m *Manager) StartDownloads(ctx context.Context) error {
	if err := ioutils.EnsureDir(m.album.OutputDir); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.Workers)

	for _, ref := range m.refs {
		ref := ref
		g.Go(func() error {
			m.record(m.processImage(ctx, ref))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Summary returns a copy of the aggregated results so far.
func (m *Manager) Summary() model.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := m.summary
	summary.Failures = append([]model.DownloadResult(nil), m.summary.Failures...)
	return summary
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (completed, total int32, receivedBytes int64) {
	return atomic.LoadInt32(&m.completedFiles), int32(len(m.refs)),
		atomic.LoadInt64(&m.receivedBytes)
}

// References returns the image references discovered by Initialize.
func (m *Manager) References() []*model.ImageReference {
	return append([]*model.ImageReference(nil), m.refs...)
}

// Album returns the resolved album, or nil before Initialize.
func (m *Manager) Album() *model.Album {
	return m.album
}

// processImage runs one image task to its terminal state.
//
// The existence check costs no network access; an existing target file is
// the resumption record from a previous run.
func (m *Manager) processImage(ctx context.Context, ref *model.ImageReference) model.DownloadResult {
	defer atomic.AddInt32(&m.completedFiles, 1)

	if _, err := os.Stat(ref.Path); err == nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", ref.FileName), Level: LevelVerbose})
		return model.DownloadResult{Ref: ref, Status: model.StatusSkipped}
	}

	var err error
	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		if ctx.Err() != nil {
			err = ctx.Err()
			break
		}

		err = m.downloadImage(ctx, ref)
		if err == nil {
			break
		}

		if tries < m.settings.DownloadMaxRetries-1 {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, m.settings.DownloadMaxRetries-1, ref.FileName),
				Level:   LevelWarning,
			})
			m.waitForRetry(ctx, tries)
		}
	}

	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed %s: %v", ref.URL, err), Level: LevelError})
		return model.DownloadResult{Ref: ref, Status: model.StatusFailed, Err: err}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", ref.FileName), Level: LevelVerbose})
	return model.DownloadResult{Ref: ref, Status: model.StatusDownloaded}
}

// downloadImage fetches one image and writes it atomically.
func (m *Manager) downloadImage(ctx context.Context, ref *model.ImageReference) error {
	if m.settings.ResizeDownloads {
		data, err := m.httpClient.Get(ctx, ref.URL)
		if err != nil {
			return err
		}
		atomic.AddInt64(&m.receivedBytes, int64(len(data)))

		resized, err := m.imageService.ResizeToFit(data, m.settings.ResizeMaxSize)
		if err != nil {
			// Payload is not a decodable image; keep the original bytes
			resized = data
		}

		return ioutils.WriteFileAtomic(ref.Path, resized)
	}

	n, err := m.httpClient.DownloadFile(ctx, ref.URL, ref.Path, nil)
	atomic.AddInt64(&m.receivedBytes, n)
	return err
}

// record folds one task result into the summary under the lock.
func (m *Manager) record(res model.DownloadResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary.Record(res)
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
