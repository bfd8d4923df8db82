// Package confirm holds search results awaiting a user's pick and turns the
// confirmed pick into a download handed to the agent.
package confirm

import (
	"errors"
	"time"

	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/rank"
)

var (
	// ErrNotFound is returned when no pending confirmation has the given id.
	ErrNotFound = errors.New("pending confirmation not found")

	// ErrAlreadyResolved is returned when confirming or rejecting an entry
	// that was already resolved.
	ErrAlreadyResolved = errors.New("confirmation already resolved")

	// ErrNoSuchCandidate is returned when the selected index does not point
	// at a stored result.
	ErrNoSuchCandidate = errors.New("no candidate at selected index")
)

// Status is the lifecycle state of a pending confirmation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Pending is a search awaiting the user's pick. Results is a frozen snapshot
// of the ranked candidates as they were presented; confirmation always acts
// on this snapshot, never on a fresh search.
type Pending struct {
	ID        int64
	Source    history.Source
	SourceID  *int64
	ItemTitle string
	Season    *int
	Episode   *int
	Year      *int

	SearchQuery string
	Results     []rank.RankedCandidate

	Status        Status
	Destination   string
	SelectedIndex *int

	IsUpgrade      bool
	ReplacedFileID *int64

	CreatedAt  time.Time
	ResolvedAt *time.Time
}
