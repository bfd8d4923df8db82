package confirm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fetcharr/fetcharr/internal/agent"
	"github.com/fetcharr/fetcharr/internal/history"
)

// LinkResolver turns a candidate identifier into a temporary download URL.
// The search orchestrator satisfies this.
type LinkResolver interface {
	DirectLink(ctx context.Context, ident string) (string, error)
}

// Confirmer executes the user's pick: resolve the direct link, hand the
// package to the download agent, resolve the pending entry and open a
// lifecycle record.
type Confirmer struct {
	pending *Store
	history *history.Store
	links   LinkResolver
	agent   agent.Gateway
	log     *slog.Logger
}

// NewConfirmer creates a Confirmer.
func NewConfirmer(pending *Store, hist *history.Store, links LinkResolver, gw agent.Gateway, log *slog.Logger) *Confirmer {
	if log == nil {
		log = slog.Default()
	}
	return &Confirmer{
		pending: pending,
		history: hist,
		links:   links,
		agent:   gw,
		log:     log.With("component", "confirm"),
	}
}

// Confirm acts on the frozen snapshot of pending entry id, selecting the
// candidate at index. On success the entry is resolved and a history record
// with status sent is returned. Failures before the agent accepted the
// package leave the entry pending, so the pick can be retried.
func (c *Confirmer) Confirm(ctx context.Context, id int64, index int) (*history.Record, error) {
	p, err := c.pending.Get(id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPending {
		return nil, fmt.Errorf("confirm %d: %w", id, ErrAlreadyResolved)
	}
	selected, err := p.Snapshot(index)
	if err != nil {
		return nil, fmt.Errorf("confirm %d: %w", id, err)
	}

	link, err := c.links.DirectLink(ctx, selected.Ident)
	if err != nil {
		return nil, fmt.Errorf("confirm %d: resolve link for %q: %w", id, selected.Ident, err)
	}

	packageID, err := c.agent.AddPackage(ctx, packageName(p), []string{link})
	if err != nil {
		return nil, fmt.Errorf("confirm %d: add package: %w", id, err)
	}

	if err := c.pending.Resolve(id, StatusConfirmed, &index); err != nil {
		// The package is already with the agent; the history record below is
		// the authoritative trail either way.
		c.log.Error("resolve after agent accept failed", "pending_id", id, "error", err)
	}

	rec := &history.Record{
		Source:         p.Source,
		SourceID:       p.SourceID,
		ItemTitle:      p.ItemTitle,
		Season:         p.Season,
		Episode:        p.Episode,
		Year:           p.Year,
		Ident:          selected.Ident,
		Filename:       selected.Name,
		FileSize:       &selected.Size,
		Quality:        selected.Parsed.Resolution.String(),
		Language:       strings.Join(selected.Parsed.AudioLanguages, ","),
		Destination:    p.Destination,
		PackageID:      &packageID,
		Status:         history.StatusSent,
		IsUpgrade:      p.IsUpgrade,
		ReplacedFileID: p.ReplacedFileID,
	}
	if err := c.history.Add(rec); err != nil {
		return nil, fmt.Errorf("confirm %d: record history: %w", id, err)
	}

	c.log.Info("download confirmed",
		"pending_id", id,
		"history_id", rec.ID,
		"title", p.ItemTitle,
		"filename", selected.Name,
		"package_id", packageID)
	return rec, nil
}

// Reject resolves a pending entry without downloading anything.
func (c *Confirmer) Reject(id int64) error {
	p, err := c.pending.Get(id)
	if err != nil {
		return err
	}
	if p.Status != StatusPending {
		return fmt.Errorf("reject %d: %w", id, ErrAlreadyResolved)
	}
	if err := c.pending.Resolve(id, StatusRejected, nil); err != nil {
		return err
	}
	c.log.Info("pending entry rejected", "pending_id", id, "title", p.ItemTitle)
	return nil
}

// packageName labels the agent package after the item, not the release name,
// so the reconciliation loop's logs stay readable.
func packageName(p *Pending) string {
	name := p.ItemTitle
	switch {
	case p.Season != nil && p.Episode != nil:
		name = fmt.Sprintf("%s - S%02dE%02d", p.ItemTitle, *p.Season, *p.Episode)
	case p.Year != nil:
		name = fmt.Sprintf("%s (%d)", p.ItemTitle, *p.Year)
	}
	if p.IsUpgrade {
		name += " (Upgrade)"
	}
	return name
}
