// Package search generates query variants for a requested item, queries the
// search provider through a TTL cache, and delegates ranking.
package search

import (
	"context"
	"errors"

	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/rank"
)

//go:generate mockgen -destination mocks/mock_provider.go -package mocks github.com/fetcharr/fetcharr/internal/search Provider

// Sentinel errors for the search package.
var (
	// ErrProviderUnavailable is returned when the search provider cannot be
	// reached.
	ErrProviderUnavailable = errors.New("search provider unavailable")

	// ErrAllVariantsFailed is returned when every query variant failed and no
	// cached data exists for any of them.
	ErrAllVariantsFailed = errors.New("all query variants failed")

	// ErrNoDirectLink is returned when the provider cannot resolve a
	// candidate to a download URL.
	ErrNoDirectLink = errors.New("no direct link for candidate")
)

// Provider is the search provider: text query in, candidates out, plus
// resolution of a candidate identifier to a temporary direct-download URL.
type Provider interface {
	Search(ctx context.Context, query string) ([]rank.Candidate, error)
	DirectLink(ctx context.Context, ident string) (string, error)
}

// Item is a requested item as reported by a library manager.
type Item struct {
	Source   history.Source
	SourceID *int64
	Title    string
	Season   *int
	Episode  *int
	Year     *int

	// Destination is the library path the finished file belongs under.
	Destination string
}

// Expected derives the ranker expectation for this item.
func (i Item) Expected() rank.Expected {
	return rank.Expected{Title: i.Title, Season: i.Season, Episode: i.Episode}
}
