package mover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FindDownloaded locates the downloaded file by its exact name: first flat in
// the download directory, then recursively (the agent may unpack into a
// per-package subdirectory).
func FindDownloaded(downloadDir, filename string) (string, error) {
	flat := filepath.Join(downloadDir, filename)
	if _, err := os.Stat(flat); err == nil {
		return flat, nil
	}

	var found string
	err := filepath.WalkDir(downloadDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == filename {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", downloadDir, err)
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s under %s", ErrSourceNotFound, filename, downloadDir)
	}
	return found, nil
}
