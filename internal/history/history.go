// Package history persists download lifecycle records: one row per item from
// confirmation through final placement in the library.
package history

import (
	"time"
)

// Source identifies the library manager a record originated from.
type Source string

const (
	SourceSonarr Source = "sonarr"
	SourceRadarr Source = "radarr"
)

// Status tracks whether the item was handed to the download agent.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Decision is the user's adjudication of an upgrade record.
type Decision string

const (
	DecisionUseNew   Decision = "use_new"
	DecisionKeepOld  Decision = "keep_old"
	DecisionKeepBoth Decision = "keep_both"
)

// Valid reports whether d is one of the three recognized decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionUseNew, DecisionKeepOld, DecisionKeepBoth:
		return true
	}
	return false
}

// Record is one item's journey from confirmed download through placement.
// Completion fields are nil until the reconciliation loop (or the upgrade
// adjudicator) sets them.
type Record struct {
	ID        int64
	Source    Source
	SourceID  *int64
	ItemTitle string
	Season    *int
	Episode   *int
	Year      *int

	Ident    string
	Filename string
	FileSize *int64
	Quality  string
	Language string

	Destination string
	PackageID   *string
	Status      Status
	LastError   *string

	IsUpgrade       bool
	ReplacedFileID  *int64
	UpgradeDecision *Decision

	DownloadCompletedAt *time.Time
	FileMovedAt         *time.Time
	RescanRequestedAt   *time.Time
	FinalPath           *string

	CreatedAt time.Time
}

// AwaitingDecision reports whether the record is parked for adjudication.
func (r *Record) AwaitingDecision() bool {
	return r.IsUpgrade && r.UpgradeDecision == nil
}
