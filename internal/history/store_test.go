package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentRecord() *Record {
	return &Record{
		Source:      SourceSonarr,
		SourceID:    ptr(int64(42)),
		ItemTitle:   "Show Name",
		Season:      ptr(1),
		Episode:     ptr(2),
		Ident:       "abc123",
		Filename:    "Show.Name.S01E02.1080p.WEB-DL.x264.mkv",
		FileSize:    ptr(int64(4 << 30)),
		Quality:     "1080p",
		Language:    "cs",
		Destination: "/tv/Show Name",
		PackageID:   ptr("77"),
		Status:      StatusSent,
	}
}

func TestStore_AddAndGet(t *testing.T) {
	store := NewStore(setupTestDB(t))

	r := sentRecord()
	require.NoError(t, store.Add(r))
	require.NotZero(t, r.ID)
	require.False(t, r.CreatedAt.IsZero())

	got, err := store.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Show Name", got.ItemTitle)
	assert.Equal(t, StatusSent, got.Status)
	require.NotNil(t, got.PackageID)
	assert.Equal(t, "77", *got.PackageID)
	assert.Nil(t, got.FileMovedAt)
	assert.Nil(t, got.UpgradeDecision)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_NeedsAttention(t *testing.T) {
	store := NewStore(setupTestDB(t))

	wanted := sentRecord()
	require.NoError(t, store.Add(wanted))

	// status != sent: never considered.
	failed := sentRecord()
	failed.Status = StatusFailed
	require.NoError(t, store.Add(failed))

	// no package id: never considered.
	noPackage := sentRecord()
	noPackage.PackageID = nil
	require.NoError(t, store.Add(noPackage))

	// already moved: done.
	moved := sentRecord()
	require.NoError(t, store.Add(moved))
	require.NoError(t, store.MarkMoved(moved.ID, "/tv/Show Name/Season 01/x.mkv"))

	// keep_old discards the download without a move: settled.
	discarded := sentRecord()
	discarded.IsUpgrade = true
	discarded.ReplacedFileID = ptr(int64(10))
	require.NoError(t, store.Add(discarded))
	require.NoError(t, store.SetDecision(discarded.ID, DecisionKeepOld, nil))

	records, err := store.NeedsAttention()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, wanted.ID, records[0].ID)
}

func TestStore_MarkDownloadCompleted_Idempotent(t *testing.T) {
	store := NewStore(setupTestDB(t))

	r := sentRecord()
	require.NoError(t, store.Add(r))

	require.NoError(t, store.MarkDownloadCompleted(r.ID))
	first, err := store.Get(r.ID)
	require.NoError(t, err)
	require.NotNil(t, first.DownloadCompletedAt)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.MarkDownloadCompleted(r.ID))
	second, err := store.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, *first.DownloadCompletedAt, *second.DownloadCompletedAt,
		"second call must not re-stamp")
}

func TestStore_MarkMoved_SetOnce(t *testing.T) {
	store := NewStore(setupTestDB(t))

	r := sentRecord()
	require.NoError(t, store.Add(r))

	require.NoError(t, store.MarkMoved(r.ID, "/tv/Show Name/Season 01/x.mkv"))

	got, err := store.Get(r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FinalPath)
	assert.Equal(t, "/tv/Show Name/Season 01/x.mkv", *got.FinalPath)
	require.NotNil(t, got.FileMovedAt)
	require.NotNil(t, got.DownloadCompletedAt, "move implies completion")

	err = store.MarkMoved(r.ID, "/tv/elsewhere.mkv")
	assert.ErrorIs(t, err, ErrAlreadyMoved)

	unchanged, err := store.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "/tv/Show Name/Season 01/x.mkv", *unchanged.FinalPath)
}

func TestStore_SetDecision(t *testing.T) {
	store := NewStore(setupTestDB(t))

	r := sentRecord()
	r.IsUpgrade = true
	r.ReplacedFileID = ptr(int64(10))
	require.NoError(t, store.Add(r))

	require.NoError(t, store.SetDecision(r.ID, DecisionKeepOld, nil))

	got, err := store.Get(r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UpgradeDecision)
	assert.Equal(t, DecisionKeepOld, *got.UpgradeDecision)
	assert.Nil(t, got.FinalPath)

	// Decided records are immutable.
	err = store.SetDecision(r.ID, DecisionUseNew, ptr("/tv/x.mkv"))
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestStore_SetDecision_Invalid(t *testing.T) {
	store := NewStore(setupTestDB(t))

	r := sentRecord()
	r.IsUpgrade = true
	require.NoError(t, store.Add(r))

	err := store.SetDecision(r.ID, Decision("delete_everything"), nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAlreadyDecided))

	got, err := store.Get(r.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UpgradeDecision)
}

func TestStore_SetDecision_NotAnUpgrade(t *testing.T) {
	store := NewStore(setupTestDB(t))

	r := sentRecord()
	require.NoError(t, store.Add(r))

	err := store.SetDecision(r.ID, DecisionKeepOld, nil)
	require.Error(t, err)
}

func TestStore_PendingUpgrades(t *testing.T) {
	store := NewStore(setupTestDB(t))

	pending := sentRecord()
	pending.IsUpgrade = true
	require.NoError(t, store.Add(pending))

	decided := sentRecord()
	decided.IsUpgrade = true
	require.NoError(t, store.Add(decided))
	require.NoError(t, store.SetDecision(decided.ID, DecisionKeepOld, nil))

	plain := sentRecord()
	require.NoError(t, store.Add(plain))

	upgrades, err := store.PendingUpgrades()
	require.NoError(t, err)
	require.Len(t, upgrades, 1)
	assert.Equal(t, pending.ID, upgrades[0].ID)
	assert.True(t, upgrades[0].AwaitingDecision())
}

func TestStore_SetError(t *testing.T) {
	store := NewStore(setupTestDB(t))

	r := sentRecord()
	require.NoError(t, store.Add(r))

	require.NoError(t, store.SetError(r.ID, "file not found: x.mkv"))
	got, err := store.Get(r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastError)
	assert.Equal(t, "file not found: x.mkv", *got.LastError)
}

func TestStore_Sweep(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	settled := sentRecord()
	require.NoError(t, store.Add(settled))
	require.NoError(t, store.MarkMoved(settled.ID, "/library/tv/Show/Season 01/x.mkv"))

	inflight := sentRecord()
	require.NoError(t, store.Add(inflight))

	discarded := sentRecord()
	discarded.IsUpgrade = true
	discarded.ReplacedFileID = ptr(int64(10))
	require.NoError(t, store.Add(discarded))
	require.NoError(t, store.SetDecision(discarded.ID, DecisionKeepOld, nil))

	fresh := sentRecord()
	require.NoError(t, store.Add(fresh))
	require.NoError(t, store.MarkMoved(fresh.ID, "/library/tv/Show/Season 01/y.mkv"))

	// Age everything but the fresh record past the cutoff.
	backdated := time.Now().UTC().Add(-60 * 24 * time.Hour)
	for _, id := range []int64{settled.ID, inflight.ID, discarded.ID} {
		_, err := db.Exec(`UPDATE download_history SET created_at = ? WHERE id = ?`, backdated, id)
		require.NoError(t, err)
	}

	n, err := store.Sweep(time.Now().UTC().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.Get(settled.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(discarded.ID)
	assert.ErrorIs(t, err, ErrNotFound, "keep_old records are settled")
	_, err = store.Get(inflight.ID)
	assert.NoError(t, err, "in-flight records survive regardless of age")
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestStore_List(t *testing.T) {
	store := NewStore(setupTestDB(t))

	a := sentRecord()
	require.NoError(t, store.Add(a))
	b := sentRecord()
	b.Source = SourceRadarr
	require.NoError(t, store.Add(b))

	src := SourceRadarr
	records, err := store.List(Filter{Source: &src})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, b.ID, records[0].ID)

	all, err := store.List(Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID, "newest first")
}
