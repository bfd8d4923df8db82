package confirm

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/migrations"
	"github.com/fetcharr/fetcharr/internal/rank"
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

// episodePending builds a pending entry with two ranked results.
func episodePending() *Pending {
	return &Pending{
		Source:      history.SourceSonarr,
		SourceID:    ptr(int64(42)),
		ItemTitle:   "Show",
		Season:      ptr(1),
		Episode:     ptr(2),
		SearchQuery: "Show S01E02",
		Destination: "/library/tv/Show",
		Results: []rank.RankedCandidate{
			{
				Candidate: rank.Candidate{Ident: "best", Name: "Show.S01E02.1080p.WEB-DL.mkv", Size: 2 << 30},
				Score:     rank.Score{Total: 280},
			},
			{
				Candidate: rank.Candidate{Ident: "worse", Name: "Show.S01E02.720p.HDTV.mkv", Size: 1 << 30},
				Score:     rank.Score{Total: 270},
			},
		},
	}
}
