package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fetcharr/fetcharr/internal/rank"
)

// Orchestrator runs the variant-fan-out search: cache, provider, dedup, rank.
type Orchestrator struct {
	provider Provider
	cache    *Cache
	ranker   *rank.Ranker
	topN     int
	log      *slog.Logger
}

// NewOrchestrator creates an orchestrator returning at most topN candidates.
func NewOrchestrator(provider Provider, cache *Cache, ranker *rank.Ranker, topN int, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		provider: provider,
		cache:    cache,
		ranker:   ranker,
		topN:     topN,
		log:      log.With("component", "search"),
	}
}

// Search queries every variant for the item, merges the results (first
// occurrence of an ident wins), ranks them and returns the top N.
//
// A single variant failing is logged and skipped; Search fails only when
// every variant failed and no cached data served any of them. Zero ranked
// survivors with at least one successful variant is a valid empty result.
func (o *Orchestrator) Search(ctx context.Context, item Item) ([]rank.RankedCandidate, error) {
	variants := QueryVariants(item)
	if len(variants) == 0 {
		return nil, fmt.Errorf("no query variants for item %q", item.Title)
	}

	start := time.Now()
	var merged []rank.Candidate
	seen := make(map[string]bool)
	succeeded := 0
	var lastErr error

	for _, query := range variants {
		candidates, err := o.lookup(ctx, query)
		if err != nil {
			o.log.Warn("query variant failed", "query", query, "error", err)
			lastErr = err
			continue
		}
		succeeded++
		for _, c := range candidates {
			if c.Ident == "" || seen[c.Ident] {
				continue
			}
			seen[c.Ident] = true
			merged = append(merged, c)
		}
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("%w: %v", ErrAllVariantsFailed, lastErr)
	}

	ranked := o.ranker.RankAll(merged, item.Expected(), o.topN)
	o.log.Info("search complete",
		"title", item.Title,
		"variants", len(variants),
		"unique", len(merged),
		"ranked", len(ranked),
		"duration_ms", time.Since(start).Milliseconds())
	return ranked, nil
}

// lookup serves one variant from the cache when possible, otherwise from the
// provider, caching fresh results.
func (o *Orchestrator) lookup(ctx context.Context, query string) ([]rank.Candidate, error) {
	if o.cache != nil {
		cached, ok, err := o.cache.Get(query)
		if err != nil {
			o.log.Warn("cache read failed", "query", query, "error", err)
		} else if ok {
			o.log.Debug("cache hit", "query", query, "results", len(cached))
			return cached, nil
		}
	}

	candidates, err := o.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if o.cache != nil && len(candidates) > 0 {
		if err := o.cache.Put(query, candidates); err != nil {
			o.log.Warn("cache write failed", "query", query, "error", err)
		}
	}
	return candidates, nil
}

// DirectLink resolves a candidate identifier to a temporary download URL.
func (o *Orchestrator) DirectLink(ctx context.Context, ident string) (string, error) {
	return o.provider.DirectLink(ctx, ident)
}
