package mover

import (
	"log/slog"
	"time"

	"github.com/fetcharr/fetcharr/internal/confirm"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/search"
)

// Retention sweeps aged rows on the loop cadence: expired search cache
// entries, resolved confirmations, and old lifecycle records. Unresolved
// confirmations and unmoved records are never swept.
type Retention struct {
	history *history.Store
	pending *confirm.Store
	cache   *search.Cache
	keep    time.Duration
	log     *slog.Logger
}

// NewRetention creates a Retention keeping resolved rows for the given
// duration. A zero keep disables the history and confirmation sweeps.
func NewRetention(hist *history.Store, pending *confirm.Store, cache *search.Cache, keep time.Duration, log *slog.Logger) *Retention {
	if log == nil {
		log = slog.Default()
	}
	return &Retention{
		history: hist,
		pending: pending,
		cache:   cache,
		keep:    keep,
		log:     log.With("component", "retention"),
	}
}

// Run performs one sweep. Failures are logged; a sweep never blocks the
// reconciliation pass it shares a cadence with.
func (r *Retention) Run() {
	if r.cache != nil {
		if n, err := r.cache.SweepExpired(); err != nil {
			r.log.Warn("cache sweep failed", "error", err)
		} else if n > 0 {
			r.log.Debug("cache entries swept", "count", n)
		}
	}

	if r.keep <= 0 {
		return
	}
	cutoff := time.Now().UTC().Add(-r.keep)

	if r.pending != nil {
		if n, err := r.pending.SweepResolved(cutoff); err != nil {
			r.log.Warn("confirmation sweep failed", "error", err)
		} else if n > 0 {
			r.log.Debug("resolved confirmations swept", "count", n)
		}
	}

	if r.history != nil {
		if n, err := r.history.Sweep(cutoff); err != nil {
			r.log.Warn("history sweep failed", "error", err)
		} else if n > 0 {
			r.log.Debug("history records swept", "count", n)
		}
	}
}
