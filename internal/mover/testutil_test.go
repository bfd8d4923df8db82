package mover

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

func ptr[T any](v T) *T {
	return &v
}

// sentRecord builds a record the reconciler would pick up, pointing at the
// given library destination.
func sentRecord(destination string) *history.Record {
	return &history.Record{
		Source:      history.SourceSonarr,
		SourceID:    ptr(int64(3)),
		ItemTitle:   "Show",
		Season:      ptr(1),
		Episode:     ptr(2),
		Ident:       "abc",
		Filename:    "Show.S01E02.1080p.WEB-DL.mkv",
		Destination: destination,
		PackageID:   ptr("pkg-1"),
		Status:      history.StatusSent,
	}
}

// writeFile creates a file with throwaway content, making parent directories.
func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("video data"), 0644))
}
