// Package mover reconciles in-flight downloads: it polls the download agent,
// copies finished files into the library, and triggers the follow-up rescans.
// Every step is idempotent so a crashed or repeated run converges instead of
// duplicating work.
package mover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fetcharr/fetcharr/internal/agent"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/manager"
	"github.com/fetcharr/fetcharr/internal/plex"
)

// Mover drives one reconciliation pass over the records that need attention.
type Mover struct {
	history     *history.Store
	agent       agent.Gateway
	managers    map[history.Source]manager.Manager
	plex        *plex.Client
	downloadDir string
	log         *slog.Logger
}

// New creates a Mover. plexClient may be nil, and managers may omit sources;
// the corresponding follow-ups are skipped for those records.
func New(hist *history.Store, gw agent.Gateway, managers map[history.Source]manager.Manager, plexClient *plex.Client, downloadDir string, log *slog.Logger) *Mover {
	if log == nil {
		log = slog.Default()
	}
	return &Mover{
		history:     hist,
		agent:       gw,
		managers:    managers,
		plex:        plexClient,
		downloadDir: downloadDir,
		log:         log.With("component", "mover"),
	}
}

// ProcessAll runs one reconciliation pass. One record failing never aborts
// the others; failures are recorded on the record and logged under a shared
// run id for correlation.
func (m *Mover) ProcessAll(ctx context.Context) {
	records, err := m.history.NeedsAttention()
	if err != nil {
		m.log.Error("list records failed", "error", err)
		return
	}
	if len(records) == 0 {
		return
	}

	runID := uuid.NewString()
	log := m.log.With("run_id", runID)
	log.Info("reconciliation pass", "records", len(records))

	for _, rec := range records {
		if ctx.Err() != nil {
			log.Warn("pass interrupted", "error", ctx.Err())
			return
		}
		if err := m.processRecord(ctx, log, rec); err != nil {
			log.Error("record failed", "history_id", rec.ID, "error", err)
			if err := m.history.SetError(rec.ID, err.Error()); err != nil {
				log.Error("record error not persisted", "history_id", rec.ID, "error", err)
			}
		}
	}
}

// processRecord advances one record as far as its current state allows.
func (m *Mover) processRecord(ctx context.Context, log *slog.Logger, rec *history.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	status, err := m.agent.PackageStatus(ctx, *rec.PackageID)
	if err != nil {
		return fmt.Errorf("package status: %w", err)
	}

	switch status.State {
	case agent.PackageDownloading:
		log.Debug("still downloading", "history_id", rec.ID, "title", rec.ItemTitle)
		return nil

	case agent.PackageFinished:
		if err := m.history.MarkDownloadCompleted(rec.ID); err != nil {
			return err
		}
		if rec.AwaitingDecision() {
			// Parked until the user adjudicates the upgrade.
			log.Info("upgrade awaiting decision", "history_id", rec.ID, "title", rec.ItemTitle)
			return nil
		}
		return m.moveFinished(ctx, log, rec)

	default: // PackageNotFound
		if rec.AwaitingDecision() {
			// The old library file can already sit at the computed
			// destination; recovery must not mistake it for the new one.
			log.Warn("package gone, upgrade still awaiting decision",
				"history_id", rec.ID, "title", rec.ItemTitle)
			return nil
		}
		return m.recoverUnknown(ctx, log, rec)
	}
}

// moveFinished copies the finished file into the library and runs the
// follow-ups. The lifecycle record is stamped moved before any follow-up, so
// a follow-up failure never repeats the copy.
func (m *Mover) moveFinished(ctx context.Context, log *slog.Logger, rec *history.Record) error {
	dest := DestinationPath(rec)

	src, err := FindDownloaded(m.downloadDir, rec.Filename)
	if err != nil {
		return err
	}

	size, err := CopyFile(src, dest)
	switch {
	case errors.Is(err, ErrDestinationExists):
		log.Info("destination already in place", "history_id", rec.ID, "path", dest)
	case err != nil:
		return err
	default:
		log.Info("file moved",
			"history_id", rec.ID,
			"title", rec.ItemTitle,
			"path", dest,
			"size", size)
		if err := os.Remove(src); err != nil {
			// The library copy is intact; a stale download is an operator
			// cleanup, not a failure.
			log.Warn("source not removed", "history_id", rec.ID, "path", src, "error", err)
		}
	}

	if err := m.history.MarkMoved(rec.ID, dest); err != nil && !errors.Is(err, history.ErrAlreadyMoved) {
		return err
	}

	m.followUps(ctx, log, rec, dest)
	return nil
}

// recoverUnknown handles packages the agent no longer knows: if the file is
// already in the library the move is completed idempotently, otherwise the
// record keeps a permanent error for the operator.
func (m *Mover) recoverUnknown(ctx context.Context, log *slog.Logger, rec *history.Record) error {
	dest := DestinationPath(rec)
	if _, err := os.Stat(dest); err == nil {
		log.Info("package gone but file in place", "history_id", rec.ID, "path", dest)
		if err := m.history.MarkMoved(rec.ID, dest); err != nil && !errors.Is(err, history.ErrAlreadyMoved) {
			return err
		}
		m.followUps(ctx, log, rec, dest)
		return nil
	}
	return fmt.Errorf("package %s unknown to agent and no file at %s", *rec.PackageID, dest)
}

// followUps runs the post-move notifications. Each is independent and
// best-effort: the move already happened, so failures are logged and the
// next pass will not repeat the copy.
func (m *Mover) followUps(ctx context.Context, log *slog.Logger, rec *history.Record, dest string) {
	if mgr, ok := m.managers[rec.Source]; ok && rec.SourceID != nil {
		if err := mgr.Rescan(ctx, *rec.SourceID); err != nil {
			log.Warn("rescan failed", "history_id", rec.ID, "source", rec.Source, "error", err)
		} else if err := m.history.MarkRescanRequested(rec.ID); err != nil {
			log.Warn("rescan not recorded", "history_id", rec.ID, "error", err)
		}
	}

	if m.plex != nil {
		if err := m.plex.ScanDir(ctx, filepath.Dir(dest)); err != nil {
			log.Warn("plex scan failed", "history_id", rec.ID, "error", err)
		}
	}

	if rec.PackageID != nil {
		if err := m.agent.DeletePackage(ctx, *rec.PackageID); err != nil {
			log.Warn("package not deleted", "history_id", rec.ID, "error", err)
		}
	}
}
