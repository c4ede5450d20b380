package ioutils

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// TempSuffix is appended to a file's final name while it is being written.
// A re-run treats such files as absent, so an interrupted download is never
// mistaken for a completed one.
const TempSuffix = ".part"

// WriteError wraps a filesystem failure while writing a downloaded file.
//
// It carries the final target path so the per-file failure report can name
// the offending file.
type WriteError struct {
	// Path is the final target path of the write.
	Path string

	// Err is the underlying filesystem error.
	Err error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// AtomicFile writes to a temporary sibling of the target path and renames
// it into place only on Commit.
//
// Usage:
//
//	f, err := ioutils.NewAtomicFile("/album/photo.jpg")
//	if err != nil { ... }
//	defer f.Close() // no-op after Commit, removes the temp file otherwise
//
//	if _, err := io.Copy(f, body); err != nil { ... }
//	if err := f.Commit(); err != nil { ... }
//
// If the process dies mid-write, only the .part file remains; the final
// name never exists partially written.
type AtomicFile struct {
	file      *os.File
	path      string
	tmpPath   string
	committed bool
}

// NewAtomicFile creates the temporary file next to path.
func NewAtomicFile(path string) (*AtomicFile, error) {
	tmpPath := path + TempSuffix
	file, err := os.Create(tmpPath)
	if err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	return &AtomicFile{file: file, path: path, tmpPath: tmpPath}, nil
}

// Write implements io.Writer, writing to the temporary file.
func (a *AtomicFile) Write(p []byte) (int, error) {
	n, err := a.file.Write(p)
	if err != nil {
		return n, &WriteError{Path: a.path, Err: err}
	}
	return n, nil
}

// Commit closes the temporary file and renames it to the final path.
func (a *AtomicFile) Commit() error {
	if err := a.file.Close(); err != nil {
		return &WriteError{Path: a.path, Err: err}
	}
	if err := os.Rename(a.tmpPath, a.path); err != nil {
		return &WriteError{Path: a.path, Err: err}
	}
	a.committed = true
	return nil
}

// Close aborts the write if Commit was not called, removing the temporary
// file. After a successful Commit it does nothing.
func (a *AtomicFile) Close() error {
	if a.committed {
		return nil
	}
	a.file.Close()
	return os.Remove(a.tmpPath)
}

// WriteFileAtomic writes data to path using the temp-and-rename discipline.
func WriteFileAtomic(path string, data []byte) error {
	f, err := NewAtomicFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Commit()
}

// WriteStreamAtomic streams r to path using the temp-and-rename discipline
// and returns the number of bytes written.
//
// A read error from r aborts the write and removes the temporary file, so
// a truncated network body never produces a final-named file.
func WriteStreamAtomic(path string, r io.Reader) (int64, error) {
	f, err := NewAtomicFile(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return n, err
	}
	return n, f.Commit()
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// This ensures filenames are valid across operating systems, particularly
// Windows which has the most restrictive naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("photo: 1/2.jpg")  // Returns "photo_ 1_2.jpg"
func SanitizeFileName(name string) string {
	// Replace invalid path/file characters with underscore
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots (Windows doesn't allow filenames ending with dots)
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space for cleaner names
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}

// EnsureDir creates a directory and all parent directories if they don't
// exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
