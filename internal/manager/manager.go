// Package manager talks to the library managers (Sonarr, Radarr) that report
// missing items and own the existing library files.
package manager

import (
	"context"
	"errors"

	"github.com/fetcharr/fetcharr/internal/history"
)

//go:generate mockgen -destination mocks/mock_manager.go -package mocks github.com/fetcharr/fetcharr/internal/manager Manager

// Sentinel errors for the manager package.
var (
	// ErrNotFound is returned when the manager does not know the requested
	// item or file.
	ErrNotFound = errors.New("library manager: not found")

	// ErrUnavailable is returned when the manager cannot be reached.
	ErrUnavailable = errors.New("library manager unavailable")
)

// MissingItem is one wanted entry reported by a library manager.
type MissingItem struct {
	// ID identifies the episode or movie.
	ID int64
	// RescanID is the id rescans and path lookups key on: the series id for
	// Sonarr, the movie id (same as ID) for Radarr.
	RescanID int64

	Title   string
	Season  *int
	Episode *int
	Year    *int

	// Path is the destination root the finished file belongs under.
	Path string
}

// File is an existing library file (episodefile or moviefile).
type File struct {
	ID      int64
	Path    string
	Size    int64
	Quality string
}

// Manager is the library-manager surface the rest of the system uses. Both
// the Sonarr and Radarr clients implement it.
type Manager interface {
	// Source names the manager for lifecycle records.
	Source() history.Source
	// MissingItems lists wanted items that have no file yet.
	MissingItems(ctx context.Context) ([]MissingItem, error)
	// ItemPath returns the destination root for a rescan id.
	ItemPath(ctx context.Context, rescanID int64) (string, error)
	// GetFile fetches an existing library file by its file id.
	GetFile(ctx context.Context, fileID int64) (*File, error)
	// DeleteFile removes a library file (the file on disk included, per the
	// manager's own semantics).
	DeleteFile(ctx context.Context, fileID int64) error
	// Rescan asks the manager to re-read the item's directory from disk.
	Rescan(ctx context.Context, rescanID int64) error
}
