package upgrade

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	agentmocks "github.com/fetcharr/fetcharr/internal/agent/mocks"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/manager"
	managermocks "github.com/fetcharr/fetcharr/internal/manager/mocks"
	"github.com/fetcharr/fetcharr/internal/migrations"
)

func ptr[T any](v T) *T {
	return &v
}

type fixture struct {
	hist        *history.Store
	gw          *agentmocks.MockGateway
	mgr         *managermocks.MockManager
	downloadDir string
	library     string
	adj         *Adjudicator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	f := &fixture{
		hist:        history.NewStore(db),
		gw:          agentmocks.NewMockGateway(ctrl),
		mgr:         managermocks.NewMockManager(ctrl),
		downloadDir: t.TempDir(),
		library:     t.TempDir(),
	}
	managers := map[history.Source]manager.Manager{history.SourceRadarr: f.mgr}
	f.adj = New(f.hist, f.gw, managers, nil, f.downloadDir, nil)
	return f
}

// parkedUpgrade creates an upgrade record whose download has finished, with
// the new file waiting in the download directory.
func (f *fixture) parkedUpgrade(t *testing.T) *history.Record {
	t.Helper()
	rec := &history.Record{
		Source:         history.SourceRadarr,
		SourceID:       ptr(int64(21)),
		ItemTitle:      "The Matrix",
		Year:           ptr(1999),
		Ident:          "abc",
		Filename:       "The.Matrix.1999.2160p.UHD.BluRay.mkv",
		Destination:    filepath.Join(f.library, "The Matrix (1999)"),
		PackageID:      ptr("pkg-1"),
		Status:         history.StatusSent,
		IsUpgrade:      true,
		ReplacedFileID: ptr(int64(5)),
	}
	require.NoError(t, f.hist.Add(rec))
	require.NoError(t, f.hist.MarkDownloadCompleted(rec.ID))

	writeFile(t, filepath.Join(f.downloadDir, rec.Filename))

	got, err := f.hist.Get(rec.ID)
	require.NoError(t, err)
	return got
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("video data"), 0644))
}

func TestDecideUseNew(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)

	f.mgr.EXPECT().DeleteFile(gomock.Any(), int64(5)).Return(nil)
	f.mgr.EXPECT().Rescan(gomock.Any(), int64(21)).Return(nil)
	f.gw.EXPECT().DeletePackage(gomock.Any(), "pkg-1").Return(nil)

	require.NoError(t, f.adj.Decide(context.Background(), rec.ID, history.DecisionUseNew))

	dest := filepath.Join(f.library, "The Matrix (1999)", rec.Filename)
	_, err := os.Stat(dest)
	assert.NoError(t, err)

	got, err := f.hist.Get(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UpgradeDecision)
	assert.Equal(t, history.DecisionUseNew, *got.UpgradeDecision)
	require.NotNil(t, got.FinalPath)
	assert.Equal(t, dest, *got.FinalPath)
	assert.NotNil(t, got.FileMovedAt)
}

func TestDecideUseNewCopyFailureKeepsOldFile(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)
	// The downloaded file vanished: the copy cannot happen, so the old
	// library file must not be deleted and the record stays undecided.
	require.NoError(t, os.Remove(filepath.Join(f.downloadDir, rec.Filename)))

	err := f.adj.Decide(context.Background(), rec.ID, history.DecisionUseNew)
	require.Error(t, err)

	got, err := f.hist.Get(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UpgradeDecision, "record stays decidable")
}

func TestDecideUseNewOldFileDeleteFailureStands(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)

	f.mgr.EXPECT().DeleteFile(gomock.Any(), int64(5)).Return(manager.ErrUnavailable)
	f.mgr.EXPECT().Rescan(gomock.Any(), int64(21)).Return(nil)
	f.gw.EXPECT().DeletePackage(gomock.Any(), "pkg-1").Return(nil)

	require.NoError(t, f.adj.Decide(context.Background(), rec.ID, history.DecisionUseNew))

	got, err := f.hist.Get(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UpgradeDecision)
	assert.Equal(t, history.DecisionUseNew, *got.UpgradeDecision,
		"new file placed, decision stands despite the failed delete")
}

func TestDecideKeepOld(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)

	f.gw.EXPECT().DeletePackage(gomock.Any(), "pkg-1").Return(nil)

	require.NoError(t, f.adj.Decide(context.Background(), rec.ID, history.DecisionKeepOld))

	_, err := os.Stat(filepath.Join(f.downloadDir, rec.Filename))
	assert.True(t, os.IsNotExist(err), "downloaded file discarded")

	got, err := f.hist.Get(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UpgradeDecision)
	assert.Equal(t, history.DecisionKeepOld, *got.UpgradeDecision)
	assert.Nil(t, got.FinalPath, "nothing placed in the library")
}

func TestDecideKeepOldSettlesRecord(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)

	f.gw.EXPECT().DeletePackage(gomock.Any(), "pkg-1").Return(nil)
	require.NoError(t, f.adj.Decide(context.Background(), rec.ID, history.DecisionKeepOld))

	attention, err := f.hist.NeedsAttention()
	require.NoError(t, err)
	assert.Empty(t, attention, "discarded download leaves the loop's working set")
}

func TestDecideKeepBothVersionsOnCollision(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)
	// A file with the same name already sits at the destination.
	existing := filepath.Join(f.library, "The Matrix (1999)", rec.Filename)
	writeFile(t, existing)

	f.mgr.EXPECT().Rescan(gomock.Any(), int64(21)).Return(nil)
	f.gw.EXPECT().DeletePackage(gomock.Any(), "pkg-1").Return(nil)

	require.NoError(t, f.adj.Decide(context.Background(), rec.ID, history.DecisionKeepBoth))

	versioned := filepath.Join(f.library, "The Matrix (1999)",
		"The.Matrix.1999.2160p.UHD.BluRay_v2.mkv")
	_, err := os.Stat(versioned)
	assert.NoError(t, err)
	_, err = os.Stat(existing)
	assert.NoError(t, err, "original untouched")

	got, err := f.hist.Get(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FinalPath)
	assert.Equal(t, versioned, *got.FinalPath)
}

func TestDecideInvalidDecisionHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)

	err := f.adj.Decide(context.Background(), rec.ID, history.Decision("replace_all"))
	assert.ErrorIs(t, err, ErrInvalidDecision)

	got, err := f.hist.Get(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UpgradeDecision)
	_, err = os.Stat(filepath.Join(f.downloadDir, rec.Filename))
	assert.NoError(t, err, "downloaded file untouched")
}

func TestDecideIsImmutable(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)

	f.gw.EXPECT().DeletePackage(gomock.Any(), "pkg-1").Return(nil)
	require.NoError(t, f.adj.Decide(context.Background(), rec.ID, history.DecisionKeepOld))

	err := f.adj.Decide(context.Background(), rec.ID, history.DecisionUseNew)
	assert.ErrorIs(t, err, history.ErrAlreadyDecided)
}

func TestDecideNotAnUpgrade(t *testing.T) {
	f := newFixture(t)
	rec := &history.Record{
		Source:      history.SourceRadarr,
		ItemTitle:   "The Matrix",
		Ident:       "abc",
		Filename:    "x.mkv",
		Destination: f.library,
		PackageID:   ptr("pkg-9"),
		Status:      history.StatusSent,
	}
	require.NoError(t, f.hist.Add(rec))

	err := f.adj.Decide(context.Background(), rec.ID, history.DecisionUseNew)
	assert.ErrorIs(t, err, ErrNotUpgrade)
}

func TestDecideNotReady(t *testing.T) {
	f := newFixture(t)
	fresh := &history.Record{
		Source:         history.SourceRadarr,
		SourceID:       ptr(int64(22)),
		ItemTitle:      "Heat",
		Ident:          "def",
		Filename:       "Heat.1995.mkv",
		Destination:    f.library,
		PackageID:      ptr("pkg-2"),
		Status:         history.StatusSent,
		IsUpgrade:      true,
		ReplacedFileID: ptr(int64(6)),
	}
	require.NoError(t, f.hist.Add(fresh))

	err := f.adj.Decide(context.Background(), fresh.ID, history.DecisionUseNew)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestPending(t *testing.T) {
	f := newFixture(t)
	rec := f.parkedUpgrade(t)

	pending, err := f.adj.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rec.ID, pending[0].ID)

	f.gw.EXPECT().DeletePackage(gomock.Any(), "pkg-1").Return(nil)
	require.NoError(t, f.adj.Decide(context.Background(), rec.ID, history.DecisionKeepOld))

	pending, err = f.adj.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}
