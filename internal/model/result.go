package model

// DownloadStatus is the terminal state of one image download task.
//
// Per image the state machine is:
//
//	pending → (exists? → skipped) | (fetching → writing → downloaded)
//	        | (fetching|writing → failed)
//
// There is no transition out of a terminal state.
type DownloadStatus int

const (
	// StatusSkipped means the target file already existed and no network
	// access was performed.
	StatusSkipped DownloadStatus = iota

	// StatusDownloaded means the image was fetched and written completely.
	StatusDownloaded

	// StatusFailed means the fetch or write failed; the error is recorded
	// in the DownloadResult.
	StatusFailed
)

// String returns a human-readable status name.
func (s DownloadStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusDownloaded:
		return "downloaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DownloadResult is the outcome of one image download task.
type DownloadResult struct {
	// Ref is the image this result belongs to.
	Ref *ImageReference

	// Status is the terminal state of the task.
	Status DownloadStatus

	// Err is the failure reason when Status is StatusFailed, nil otherwise.
	Err error
}

// Summary aggregates the results of a whole run.
//
// Summary itself is not safe for concurrent use; the download manager
// guards it with a mutex since worker goroutines record results
// concurrently.
type Summary struct {
	// Skipped counts files that already existed.
	Skipped int

	// Downloaded counts files fetched and written during this run.
	Downloaded int

	// Failed counts tasks that ended in an error.
	Failed int

	// Failures holds the failed results so the offending URL and reason
	// can be reported at the end.
	Failures []DownloadResult
}

// Record folds one task result into the summary.
func (s *Summary) Record(res DownloadResult) {
	switch res.Status {
	case StatusSkipped:
		s.Skipped++
	case StatusDownloaded:
		s.Downloaded++
	case StatusFailed:
		s.Failed++
		s.Failures = append(s.Failures, res)
	}
}

// Total returns the number of recorded results.
func (s *Summary) Total() int {
	return s.Skipped + s.Downloaded + s.Failed
}
