// Package download provides the orchestration logic for fetching all
// images of a fotoshare album.
//
// # Manager
//
// The Manager coordinates the whole run:
//
//  1. Resolve the album URL and output directory
//  2. Sign in when credentials are supplied (fatal on rejection)
//  3. Scrape the album page into image references (fatal when empty)
//  4. Download images across a bounded worker pool, skipping files that
//     already exist
//  5. Aggregate per-image results into a final summary
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, albumURL); err != nil {
//	    log.Fatal(err) // AuthError / no images / unreachable page
//	}
//
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err) // cancellation or output dir failure
//	}
//
//	summary := manager.Summary()
//	fmt.Printf("%d skipped, %d downloaded, %d failed\n",
//	    summary.Skipped, summary.Downloaded, summary.Failed)
//
// # Concurrency
//
// At most settings.Workers downloads run at once (errgroup.SetLimit).
// Completion order across images is unspecified; only the extraction
// order of the task list is defined. The summary is mutex-guarded since
// worker goroutines record results concurrently; the file/byte counters
// used for live progress are atomics.
//
// # Failure Isolation
//
// A failed fetch or write is recorded as that task's failure and reported
// at the end with its URL and reason. It never aborts sibling tasks.
package download
