package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Store persists lifecycle records.
type Store struct {
	db *sql.DB
}

// NewStore creates a history store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const recordColumns = `id, source, source_id, item_title, season, episode, year,
	ident, filename, file_size, quality, language, destination, package_id,
	status, last_error, is_upgrade, replaced_file_id, upgrade_decision,
	download_completed_at, file_moved_at, rescan_requested_at, final_path, created_at`

func scanRecord(row interface{ Scan(...any) error }) (*Record, error) {
	r := &Record{}
	var decision *string
	err := row.Scan(&r.ID, &r.Source, &r.SourceID, &r.ItemTitle, &r.Season,
		&r.Episode, &r.Year, &r.Ident, &r.Filename, &r.FileSize, &r.Quality,
		&r.Language, &r.Destination, &r.PackageID, &r.Status, &r.LastError,
		&r.IsUpgrade, &r.ReplacedFileID, &decision, &r.DownloadCompletedAt,
		&r.FileMovedAt, &r.RescanRequestedAt, &r.FinalPath, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if decision != nil {
		d := Decision(*decision)
		r.UpgradeDecision = &d
	}
	return r, nil
}

// Add inserts a new record and sets its ID and CreatedAt.
func (s *Store) Add(r *Record) error {
	now := time.Now().UTC()
	var decision *string
	if r.UpgradeDecision != nil {
		d := string(*r.UpgradeDecision)
		decision = &d
	}
	result, err := s.db.Exec(`
		INSERT INTO download_history (source, source_id, item_title, season,
			episode, year, ident, filename, file_size, quality, language,
			destination, package_id, status, last_error, is_upgrade,
			replaced_file_id, upgrade_decision, download_completed_at,
			file_moved_at, rescan_requested_at, final_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Source, r.SourceID, r.ItemTitle, r.Season, r.Episode, r.Year,
		r.Ident, r.Filename, r.FileSize, r.Quality, r.Language, r.Destination,
		r.PackageID, r.Status, r.LastError, r.IsUpgrade, r.ReplacedFileID,
		decision, r.DownloadCompletedAt, r.FileMovedAt, r.RescanRequestedAt,
		r.FinalPath, now,
	)
	if err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	return nil
}

// Get retrieves a record by ID. Returns ErrNotFound if it does not exist.
func (s *Store) Get(id int64) (*Record, error) {
	r, err := scanRecord(s.db.QueryRow(
		`SELECT `+recordColumns+` FROM download_history WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get history record %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get history record %d: %w", id, err)
	}
	return r, nil
}

// NeedsAttention returns records the reconciliation loop must consider:
// sent to the agent, package id known, file not yet moved. Records with any
// other status are never candidates. A keep_old adjudication discards the
// download, so those records are settled without ever moving a file.
func (s *Store) NeedsAttention() ([]*Record, error) {
	return s.list(`WHERE status = ? AND package_id IS NOT NULL AND file_moved_at IS NULL
		AND (upgrade_decision IS NULL OR upgrade_decision != ?)`,
		StatusSent, DecisionKeepOld)
}

// PendingUpgrades returns upgrade records still awaiting a user decision.
func (s *Store) PendingUpgrades() ([]*Record, error) {
	return s.list(`WHERE is_upgrade = 1 AND upgrade_decision IS NULL AND status = ?`,
		StatusSent)
}

// Filter selects records for List.
type Filter struct {
	Source    *Source
	Status    *Status
	IsUpgrade *bool
	Limit     int
}

// List returns records matching the filter, newest first.
func (s *Store) List(f Filter) ([]*Record, error) {
	var conditions []string
	var args []any

	if f.Source != nil {
		conditions = append(conditions, "source = ?")
		args = append(args, *f.Source)
	}
	if f.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *f.Status)
	}
	if f.IsUpgrade != nil {
		conditions = append(conditions, "is_upgrade = ?")
		args = append(args, *f.IsUpgrade)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	query := where + " ORDER BY id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	return s.list(query, args...)
}

func (s *Store) list(clause string, args ...any) ([]*Record, error) {
	rows, err := s.db.Query(
		`SELECT `+recordColumns+` FROM download_history `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list history records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history records: %w", err)
	}
	return records, nil
}

// MarkDownloadCompleted stamps download_completed_at once; already-stamped
// records are left untouched, so repeated calls are safe.
func (s *Store) MarkDownloadCompleted(id int64) error {
	_, err := s.db.Exec(`
		UPDATE download_history SET download_completed_at = ?
		WHERE id = ? AND download_completed_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark download completed %d: %w", id, err)
	}
	return nil
}

// MarkMoved records the final path and move time. The final path is set at
// most once: a second call returns ErrAlreadyMoved.
func (s *Store) MarkMoved(id int64, finalPath string) error {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		UPDATE download_history
		SET file_moved_at = ?, final_path = ?, last_error = NULL,
			download_completed_at = COALESCE(download_completed_at, ?)
		WHERE id = ? AND final_path IS NULL`,
		now, finalPath, now, id)
	if err != nil {
		return fmt.Errorf("mark moved %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := s.Get(id); err != nil {
			return err
		}
		return fmt.Errorf("mark moved %d: %w", id, ErrAlreadyMoved)
	}
	return nil
}

// MarkRescanRequested stamps rescan_requested_at.
func (s *Store) MarkRescanRequested(id int64) error {
	_, err := s.db.Exec(`
		UPDATE download_history SET rescan_requested_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark rescan requested %d: %w", id, err)
	}
	return nil
}

// SetError records an operator-visible error on the record without touching
// any completion field.
func (s *Store) SetError(id int64, msg string) error {
	_, err := s.db.Exec(`
		UPDATE download_history SET last_error = ? WHERE id = ?`, msg, id)
	if err != nil {
		return fmt.Errorf("set error %d: %w", id, err)
	}
	return nil
}

// SetDecision records an upgrade decision exactly once. finalPath may be nil
// (keep_old performs no destination copy). Returns ErrAlreadyDecided when a
// decision is already present, ErrNotFound when the record does not exist.
func (s *Store) SetDecision(id int64, decision Decision, finalPath *string) error {
	if !decision.Valid() {
		return fmt.Errorf("set decision %d: invalid decision %q", id, decision)
	}

	var result sql.Result
	var err error
	if finalPath != nil {
		now := time.Now().UTC()
		result, err = s.db.Exec(`
			UPDATE download_history
			SET upgrade_decision = ?, final_path = ?, file_moved_at = ?, last_error = NULL
			WHERE id = ? AND is_upgrade = 1 AND upgrade_decision IS NULL`,
			decision, *finalPath, now, id)
	} else {
		result, err = s.db.Exec(`
			UPDATE download_history
			SET upgrade_decision = ?, last_error = NULL
			WHERE id = ? AND is_upgrade = 1 AND upgrade_decision IS NULL`,
			decision, id)
	}
	if err != nil {
		return fmt.Errorf("set decision %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		r, err := s.Get(id)
		if err != nil {
			return err
		}
		if r.UpgradeDecision != nil {
			return fmt.Errorf("set decision %d: %w", id, ErrAlreadyDecided)
		}
		return fmt.Errorf("set decision %d: record is not an upgrade", id)
	}
	return nil
}

// Sweep removes settled records (moved, failed, or discarded by a keep_old
// adjudication) older than the cutoff. In-flight records are never swept
// regardless of age.
func (s *Store) Sweep(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM download_history
		WHERE created_at < ?
		AND (file_moved_at IS NOT NULL OR status = ? OR upgrade_decision = ?)`,
		cutoff.UTC(), StatusFailed, DecisionKeepOld)
	if err != nil {
		return 0, fmt.Errorf("sweep history: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
