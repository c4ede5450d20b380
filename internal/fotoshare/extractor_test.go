package fotoshare

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/handiism/fotoshare-downloader/internal/http"
)

func newTestExtractor() *Extractor {
	return NewExtractor(http.NewClient("fotoshare-downloader test"))
}

func serveHTML(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(nethttp.StatusNotFound)
			return
		}
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractor_DirectImages(t *testing.T) {
	srv := serveHTML(t, map[string]string{
		"/i/album": `<html><body>
			<a href="/photos/one.jpg?width=200">first</a>
			<img src="/photos/two.png">
			<img data-full="/photos/three.jpeg" src="/thumbs/three-small.gif">
			<a href="/about">navigation link</a>
			<a href="/p/abc123">photo page link, no extension</a>
		</body></html>`,
	})

	ext := newTestExtractor()
	urls, err := ext.ExtractImageURLs(context.Background(), srv.URL+"/i/album")
	if err != nil {
		t.Fatalf("ExtractImageURLs: %v", err)
	}

	want := []string{
		srv.URL + "/photos/one.jpg?width=200",
		srv.URL + "/photos/two.png",
		srv.URL + "/photos/three.jpeg",
		srv.URL + "/thumbs/three-small.gif",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d URLs %v, want %d", len(urls), urls, len(want))
	}
	for i, u := range want {
		if urls[i] != u {
			t.Errorf("urls[%d] = %q, want %q (document order must be preserved)", i, urls[i], u)
		}
	}
}

func TestExtractor_DuplicatesFirstWins(t *testing.T) {
	srv := serveHTML(t, map[string]string{
		"/i/album": `<html><body>
			<a href="/photos/one.jpg">first</a>
			<img src="/photos/one.jpg">
			<a href="/photos/two.jpg">second</a>
			<a href="/photos/one.jpg">again</a>
		</body></html>`,
	})

	ext := newTestExtractor()
	urls, err := ext.ExtractImageURLs(context.Background(), srv.URL+"/i/album")
	if err != nil {
		t.Fatalf("ExtractImageURLs: %v", err)
	}

	if len(urls) != 2 {
		t.Fatalf("got %d URLs %v, want 2", len(urls), urls)
	}
	if urls[0] != srv.URL+"/photos/one.jpg" || urls[1] != srv.URL+"/photos/two.jpg" {
		t.Errorf("urls = %v, duplicates should be removed first-occurrence-wins", urls)
	}
}

func TestExtractor_ThumbnailPageFallback(t *testing.T) {
	srv := serveHTML(t, map[string]string{
		"/i/album": `<html><body>
			<a href="/p/photo1">thumb 1</a>
			<a href="/p/photo2">thumb 2</a>
			<a href="/p/broken">thumb 3</a>
		</body></html>`,
		"/p/photo1": `<html><body><img src="/originals/one.jpg"></body></html>`,
		"/p/photo2": `<html><body><img src="https://cdn.example.com/originals/two.jpg"></body></html>`,
		// /p/broken intentionally missing: a dead photo page must not
		// abort discovery of the rest
	})

	ext := newTestExtractor()
	urls, err := ext.ExtractImageURLs(context.Background(), srv.URL+"/i/album")
	if err != nil {
		t.Fatalf("ExtractImageURLs: %v", err)
	}

	want := []string{
		srv.URL + "/originals/one.jpg",
		"https://cdn.example.com/originals/two.jpg",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d URLs %v, want %d", len(urls), urls, len(want))
	}
	for i, u := range want {
		if urls[i] != u {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], u)
		}
	}
}

func TestExtractor_NoImages(t *testing.T) {
	srv := serveHTML(t, map[string]string{
		"/i/album": `<html><body><p>Nothing to see here</p></body></html>`,
	})

	ext := newTestExtractor()
	_, err := ext.ExtractImageURLs(context.Background(), srv.URL+"/i/album")
	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("err = %v, want ErrNoImages", err)
	}
}

func TestExtractor_PageUnreachable(t *testing.T) {
	srv := serveHTML(t, map[string]string{})

	ext := newTestExtractor()
	_, err := ext.ExtractImageURLs(context.Background(), srv.URL+"/i/missing")
	if err == nil {
		t.Fatal("expected error for unreachable album page")
	}
	if errors.Is(err, ErrNoImages) {
		t.Error("an unreachable page is a fetch failure, not an empty album")
	}
}

func TestExtractor_RelativeURLsResolved(t *testing.T) {
	srv := serveHTML(t, map[string]string{
		"/i/album": `<html><body><img src="../photos/pic.jpg"></body></html>`,
	})

	ext := newTestExtractor()
	urls, err := ext.ExtractImageURLs(context.Background(), srv.URL+"/i/album")
	if err != nil {
		t.Fatalf("ExtractImageURLs: %v", err)
	}
	if len(urls) != 1 || urls[0] != srv.URL+"/photos/pic.jpg" {
		t.Errorf("urls = %v, relative URLs should resolve against the album URL", urls)
	}
}
