package confirm

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fetcharr/fetcharr/internal/rank"
)

// Store persists pending confirmations.
type Store struct {
	db *sql.DB
}

// NewStore creates a pending-confirmation store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const pendingColumns = `id, source, source_id, item_title, season, episode, year,
	search_query, results, status, destination, selected_index, is_upgrade,
	replaced_file_id, created_at, resolved_at`

func scanPending(row interface{ Scan(...any) error }) (*Pending, error) {
	p := &Pending{}
	var results string
	var destination *string
	err := row.Scan(&p.ID, &p.Source, &p.SourceID, &p.ItemTitle, &p.Season,
		&p.Episode, &p.Year, &p.SearchQuery, &results, &p.Status, &destination,
		&p.SelectedIndex, &p.IsUpgrade, &p.ReplacedFileID, &p.CreatedAt,
		&p.ResolvedAt)
	if err != nil {
		return nil, err
	}
	if destination != nil {
		p.Destination = *destination
	}
	if err := json.Unmarshal([]byte(results), &p.Results); err != nil {
		return nil, fmt.Errorf("decode results snapshot: %w", err)
	}
	return p, nil
}

// Add inserts a new pending confirmation with a frozen snapshot of its ranked
// results, and sets its ID, Status and CreatedAt.
func (s *Store) Add(p *Pending) error {
	results := p.Results
	if results == nil {
		results = []rank.RankedCandidate{}
	}
	snapshot, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results snapshot: %w", err)
	}

	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO pending_confirmations (source, source_id, item_title,
			season, episode, year, search_query, results, status, destination,
			is_upgrade, replaced_file_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Source, p.SourceID, p.ItemTitle, p.Season, p.Episode, p.Year,
		p.SearchQuery, string(snapshot), StatusPending, p.Destination,
		p.IsUpgrade, p.ReplacedFileID, now,
	)
	if err != nil {
		return fmt.Errorf("insert pending confirmation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	p.ID = id
	p.Status = StatusPending
	p.CreatedAt = now
	return nil
}

// Get retrieves a pending confirmation by ID. Returns ErrNotFound if it does
// not exist.
func (s *Store) Get(id int64) (*Pending, error) {
	p, err := scanPending(s.db.QueryRow(
		`SELECT `+pendingColumns+` FROM pending_confirmations WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get pending confirmation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pending confirmation %d: %w", id, err)
	}
	return p, nil
}

// ListPending returns unresolved confirmations, oldest first.
func (s *Store) ListPending() ([]*Pending, error) {
	rows, err := s.db.Query(
		`SELECT `+pendingColumns+` FROM pending_confirmations
		 WHERE status = ? ORDER BY id ASC`, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending confirmations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pending []*Pending
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending confirmation: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending confirmations: %w", err)
	}
	return pending, nil
}

// Resolve marks a pending confirmation as confirmed or rejected, exactly
// once. selectedIndex is nil for rejections. Returns ErrAlreadyResolved when
// the entry was resolved before, ErrNotFound when it does not exist.
func (s *Store) Resolve(id int64, status Status, selectedIndex *int) error {
	if status != StatusConfirmed && status != StatusRejected {
		return fmt.Errorf("resolve pending confirmation %d: invalid status %q", id, status)
	}

	result, err := s.db.Exec(`
		UPDATE pending_confirmations
		SET status = ?, selected_index = ?, resolved_at = ?
		WHERE id = ? AND status = ?`,
		status, selectedIndex, time.Now().UTC(), id, StatusPending)
	if err != nil {
		return fmt.Errorf("resolve pending confirmation %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := s.Get(id); err != nil {
			return err
		}
		return fmt.Errorf("resolve pending confirmation %d: %w", id, ErrAlreadyResolved)
	}
	return nil
}

// HasPendingFor reports whether an unresolved confirmation already exists for
// the item, so repeated searches do not stack duplicates.
func (s *Store) HasPendingFor(source string, sourceID *int64, season, episode *int) (bool, error) {
	// IS matches NULL against NULL, unlike =.
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM pending_confirmations
		WHERE status = ? AND source = ?
			AND source_id IS ? AND season IS ? AND episode IS ?`,
		StatusPending, source, sourceID, season, episode).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count pending confirmations: %w", err)
	}
	return n > 0, nil
}

// SweepResolved removes resolved entries older than the cutoff.
func (s *Store) SweepResolved(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM pending_confirmations
		WHERE status != ? AND created_at < ?`, StatusPending, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep pending confirmations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Snapshot returns the frozen candidate at the given index.
func (p *Pending) Snapshot(index int) (rank.RankedCandidate, error) {
	if index < 0 || index >= len(p.Results) {
		return rank.RankedCandidate{}, fmt.Errorf("index %d of %d results: %w",
			index, len(p.Results), ErrNoSuchCandidate)
	}
	return p.Results[index], nil
}
