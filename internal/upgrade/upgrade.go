// Package upgrade adjudicates quality upgrades: a finished download that
// would replace an existing library file is parked until the user decides to
// use the new file, keep the old one, or keep both.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fetcharr/fetcharr/internal/agent"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/manager"
	"github.com/fetcharr/fetcharr/internal/mover"
	"github.com/fetcharr/fetcharr/internal/plex"
)

var (
	// ErrNotUpgrade is returned when the record is not an upgrade.
	ErrNotUpgrade = errors.New("record is not an upgrade")

	// ErrNotReady is returned when the download has not finished yet.
	ErrNotReady = errors.New("upgrade download not finished")

	// ErrInvalidDecision is returned for an unrecognized decision. Nothing
	// is touched.
	ErrInvalidDecision = errors.New("invalid upgrade decision")
)

// Adjudicator applies upgrade decisions to parked records.
type Adjudicator struct {
	history     *history.Store
	agent       agent.Gateway
	managers    map[history.Source]manager.Manager
	plex        *plex.Client
	downloadDir string
	log         *slog.Logger
}

// New creates an Adjudicator. plexClient may be nil.
func New(hist *history.Store, gw agent.Gateway, managers map[history.Source]manager.Manager, plexClient *plex.Client, downloadDir string, log *slog.Logger) *Adjudicator {
	if log == nil {
		log = slog.Default()
	}
	return &Adjudicator{
		history:     hist,
		agent:       gw,
		managers:    managers,
		plex:        plexClient,
		downloadDir: downloadDir,
		log:         log.With("component", "upgrade"),
	}
}

// Pending lists upgrade records awaiting a decision.
func (a *Adjudicator) Pending() ([]*history.Record, error) {
	return a.history.PendingUpgrades()
}

// Decide applies a decision to the record. A decision is applied at most
// once; an invalid decision or a not-yet-finished download changes nothing.
func (a *Adjudicator) Decide(ctx context.Context, recordID int64, decision history.Decision) error {
	if !decision.Valid() {
		return fmt.Errorf("decide %d: %w: %q", recordID, ErrInvalidDecision, decision)
	}

	rec, err := a.history.Get(recordID)
	if err != nil {
		return err
	}
	if !rec.IsUpgrade {
		return fmt.Errorf("decide %d: %w", recordID, ErrNotUpgrade)
	}
	if rec.UpgradeDecision != nil {
		return fmt.Errorf("decide %d: %w", recordID, history.ErrAlreadyDecided)
	}
	if rec.DownloadCompletedAt == nil {
		return fmt.Errorf("decide %d: %w", recordID, ErrNotReady)
	}

	switch decision {
	case history.DecisionUseNew:
		return a.useNew(ctx, rec)
	case history.DecisionKeepOld:
		return a.keepOld(ctx, rec)
	default:
		return a.keepBoth(ctx, rec)
	}
}

// useNew places the new file and retires the replaced library file. The copy
// happens first: if it fails, the old file is untouched and the record stays
// undecided. A failed old-file removal after a successful copy is logged and
// the decision stands; the manager's rescan sorts out its own bookkeeping.
func (a *Adjudicator) useNew(ctx context.Context, rec *history.Record) error {
	dest, err := a.place(rec, mover.DestinationPath(rec))
	if err != nil {
		return err
	}

	if mgr, ok := a.managers[rec.Source]; ok && rec.ReplacedFileID != nil {
		if err := mgr.DeleteFile(ctx, *rec.ReplacedFileID); err != nil && !errors.Is(err, manager.ErrNotFound) {
			a.log.Warn("replaced file not deleted",
				"history_id", rec.ID, "file_id", *rec.ReplacedFileID, "error", err)
		}
	}

	if err := a.history.SetDecision(rec.ID, history.DecisionUseNew, &dest); err != nil {
		return err
	}
	a.log.Info("upgrade applied", "history_id", rec.ID, "title", rec.ItemTitle, "path", dest)

	a.followUps(ctx, rec, dest)
	return nil
}

// keepOld discards the downloaded file and leaves the library untouched.
func (a *Adjudicator) keepOld(ctx context.Context, rec *history.Record) error {
	if src, err := mover.FindDownloaded(a.downloadDir, rec.Filename); err == nil {
		if err := os.Remove(src); err != nil {
			a.log.Warn("downloaded file not removed", "history_id", rec.ID, "path", src, "error", err)
		}
	}

	if rec.PackageID != nil {
		if err := a.agent.DeletePackage(ctx, *rec.PackageID); err != nil {
			a.log.Warn("package not deleted", "history_id", rec.ID, "error", err)
		}
	}

	if err := a.history.SetDecision(rec.ID, history.DecisionKeepOld, nil); err != nil {
		return err
	}
	a.log.Info("upgrade declined", "history_id", rec.ID, "title", rec.ItemTitle)
	return nil
}

// keepBoth places the new file next to the old one, versioning the filename
// on collision.
func (a *Adjudicator) keepBoth(ctx context.Context, rec *history.Record) error {
	dest := mover.DestinationPath(rec)
	if _, err := os.Stat(dest); err == nil {
		dest = mover.VersionedPath(dest)
	}

	placed, err := a.place(rec, dest)
	if err != nil {
		return err
	}

	if err := a.history.SetDecision(rec.ID, history.DecisionKeepBoth, &placed); err != nil {
		return err
	}
	a.log.Info("upgrade kept alongside original",
		"history_id", rec.ID, "title", rec.ItemTitle, "path", placed)

	a.followUps(ctx, rec, placed)
	return nil
}

// place copies the downloaded file to dest and removes the source. An
// already-present destination counts as placed.
func (a *Adjudicator) place(rec *history.Record, dest string) (string, error) {
	src, err := mover.FindDownloaded(a.downloadDir, rec.Filename)
	if err != nil {
		return "", err
	}

	_, err = mover.CopyFile(src, dest)
	switch {
	case errors.Is(err, mover.ErrDestinationExists):
		a.log.Info("destination already in place", "history_id", rec.ID, "path", dest)
	case err != nil:
		return "", err
	default:
		if err := os.Remove(src); err != nil {
			a.log.Warn("source not removed", "history_id", rec.ID, "path", src, "error", err)
		}
	}
	return dest, nil
}

func (a *Adjudicator) followUps(ctx context.Context, rec *history.Record, dest string) {
	if mgr, ok := a.managers[rec.Source]; ok && rec.SourceID != nil {
		if err := mgr.Rescan(ctx, *rec.SourceID); err != nil {
			a.log.Warn("rescan failed", "history_id", rec.ID, "error", err)
		} else if err := a.history.MarkRescanRequested(rec.ID); err != nil {
			a.log.Warn("rescan not recorded", "history_id", rec.ID, "error", err)
		}
	}

	if a.plex != nil {
		if err := a.plex.ScanDir(ctx, filepath.Dir(dest)); err != nil {
			a.log.Warn("plex scan failed", "history_id", rec.ID, "error", err)
		}
	}

	if rec.PackageID != nil {
		if err := a.agent.DeletePackage(ctx, *rec.PackageID); err != nil {
			a.log.Warn("package not deleted", "history_id", rec.ID, "error", err)
		}
	}
}
