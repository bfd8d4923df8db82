// Package request turns search requests into pending confirmations: one-off
// searches, upgrade searches carrying the replaced file, and the sweep over
// the library managers' missing items.
package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fetcharr/fetcharr/internal/confirm"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/manager"
	"github.com/fetcharr/fetcharr/internal/rank"
	"github.com/fetcharr/fetcharr/internal/search"
)

var (
	// ErrNoResults is returned when no acceptable candidate survived
	// ranking; no confirmation is created.
	ErrNoResults = errors.New("no acceptable candidates")

	// ErrNoDestination is returned when the destination cannot be resolved.
	ErrNoDestination = errors.New("no destination for item")

	// ErrUnknownSource is returned for a source with no configured manager.
	ErrUnknownSource = errors.New("unknown source")
)

// Searcher is the slice of the search orchestrator this service needs.
type Searcher interface {
	Search(ctx context.Context, item search.Item) ([]rank.RankedCandidate, error)
}

// Request describes one item to search for.
type Request struct {
	Source   history.Source
	SourceID *int64 // series id (Sonarr) or movie id (Radarr)
	Title    string
	Season   *int
	Episode  *int
	Year     *int

	// Destination overrides the manager-resolved library path when set.
	Destination string

	// UpgradeFileID marks the request as an upgrade of an existing library
	// file; the confirmation carries it through to the lifecycle record.
	UpgradeFileID *int64
}

// Service creates pending confirmations from search requests.
type Service struct {
	searcher Searcher
	pending  *confirm.Store
	managers map[history.Source]manager.Manager
	log      *slog.Logger
}

// NewService creates a Service.
func NewService(searcher Searcher, pending *confirm.Store, managers map[history.Source]manager.Manager, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		searcher: searcher,
		pending:  pending,
		managers: managers,
		log:      log.With("component", "request"),
	}
}

// Search runs the search for one item and stores a pending confirmation
// holding the ranked snapshot. Returns ErrNoResults when nothing survived
// ranking.
func (s *Service) Search(ctx context.Context, req Request) (*confirm.Pending, error) {
	dest, err := s.resolveDestination(ctx, req)
	if err != nil {
		return nil, err
	}

	item := search.Item{
		Source:      req.Source,
		SourceID:    req.SourceID,
		Title:       req.Title,
		Season:      req.Season,
		Episode:     req.Episode,
		Year:        req.Year,
		Destination: dest,
	}

	results, err := s.searcher.Search(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", req.Title, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("search %q: %w", req.Title, ErrNoResults)
	}

	variants := search.QueryVariants(item)
	p := &confirm.Pending{
		Source:      req.Source,
		SourceID:    req.SourceID,
		ItemTitle:   req.Title,
		Season:      req.Season,
		Episode:     req.Episode,
		Year:        req.Year,
		SearchQuery: variants[0],
		Results:     results,
		Destination: dest,
	}
	if req.UpgradeFileID != nil {
		p.IsUpgrade = true
		p.ReplacedFileID = req.UpgradeFileID
	}
	if err := s.pending.Add(p); err != nil {
		return nil, err
	}

	s.log.Info("confirmation created",
		"pending_id", p.ID,
		"title", req.Title,
		"candidates", len(results),
		"upgrade", p.IsUpgrade)
	return p, nil
}

// SweepMissing enumerates every manager's missing items and creates a pending
// confirmation for each one that has results and no open confirmation yet.
// Per-item failures are logged and skipped. Returns how many confirmations
// were created.
func (s *Service) SweepMissing(ctx context.Context) (int, error) {
	if len(s.managers) == 0 {
		return 0, ErrUnknownSource
	}

	created := 0
	var lastErr error
	for source, mgr := range s.managers {
		items, err := mgr.MissingItems(ctx)
		if err != nil {
			s.log.Warn("missing items failed", "source", source, "error", err)
			lastErr = err
			continue
		}

		for _, item := range items {
			if ctx.Err() != nil {
				return created, ctx.Err()
			}

			open, err := s.pending.HasPendingFor(string(source), &item.RescanID, item.Season, item.Episode)
			if err != nil {
				return created, err
			}
			if open {
				continue
			}

			rescanID := item.RescanID
			_, err = s.Search(ctx, Request{
				Source:      source,
				SourceID:    &rescanID,
				Title:       item.Title,
				Season:      item.Season,
				Episode:     item.Episode,
				Year:        item.Year,
				Destination: item.Path,
			})
			switch {
			case errors.Is(err, ErrNoResults):
				s.log.Debug("no candidates for missing item", "source", source, "title", item.Title)
			case err != nil:
				s.log.Warn("missing item search failed", "source", source, "title", item.Title, "error", err)
			default:
				created++
			}
		}
	}

	if created == 0 && lastErr != nil {
		return 0, lastErr
	}
	return created, nil
}

// resolveDestination returns the explicit destination or asks the manager.
func (s *Service) resolveDestination(ctx context.Context, req Request) (string, error) {
	if req.Destination != "" {
		return req.Destination, nil
	}
	if req.SourceID == nil {
		return "", fmt.Errorf("%w: %q", ErrNoDestination, req.Title)
	}
	mgr, ok := s.managers[req.Source]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, req.Source)
	}
	path, err := mgr.ItemPath(ctx, *req.SourceID)
	if err != nil {
		return "", fmt.Errorf("resolve destination for %q: %w", req.Title, err)
	}
	if path == "" {
		return "", fmt.Errorf("%w: %q", ErrNoDestination, req.Title)
	}
	return path, nil
}
