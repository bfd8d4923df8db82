package mover

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fetcharr/fetcharr/internal/history"
)

// DestinationPath builds the library path for a record's file: the item's
// destination root, a "Season NN" directory for episodes, and the release
// filename unchanged.
func DestinationPath(rec *history.Record) string {
	if rec.Season != nil {
		return filepath.Join(rec.Destination,
			fmt.Sprintf("Season %02d", *rec.Season), rec.Filename)
	}
	return filepath.Join(rec.Destination, rec.Filename)
}

// VersionedPath inserts a version suffix before the extension, for keep_both
// upgrade outcomes: "movie.mkv" becomes "movie_v2.mkv".
func VersionedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_v2" + ext
}
