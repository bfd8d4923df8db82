package mover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sentinel errors for file placement.
var (
	// ErrDestinationExists is returned when the destination file is already
	// in place. Callers treat it as an already-completed move.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrCopyFailed wraps any I/O failure during the copy.
	ErrCopyFailed = errors.New("copy failed")

	// ErrSourceNotFound is returned when the downloaded file cannot be
	// located under the download directory.
	ErrSourceNotFound = errors.New("downloaded file not found")
)

// CopyFile copies src to dst, creating the destination directory as needed.
// The destination is synced to disk before returning; a partial destination
// file is removed on failure. Returns ErrDestinationExists if dst is already
// present.
func CopyFile(src, dst string) (int64, error) {
	if _, err := os.Stat(dst); err == nil {
		return 0, ErrDestinationExists
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrCopyFailed, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}
	defer func() { _ = dstFile.Close() }()

	size, err := io.Copy(dstFile, srcFile)
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}

	if err := dstFile.Sync(); err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: sync: %v", ErrCopyFailed, err)
	}

	return size, nil
}
