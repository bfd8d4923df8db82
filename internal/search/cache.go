package search

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fetcharr/fetcharr/internal/rank"
)

// Cache stores provider results keyed by the literal query string, with a
// time-to-live. Expired rows are ignored on read and removed by the sweep.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewCache creates a query-result cache with the given TTL.
func NewCache(db *sql.DB, ttl time.Duration) *Cache {
	return &Cache{db: db, ttl: ttl}
}

// Get returns the cached candidates for a query, or ok=false on a miss or an
// expired entry.
func (c *Cache) Get(query string) (candidates []rank.Candidate, ok bool, err error) {
	var raw string
	var expiresAt time.Time
	err = c.db.QueryRow(`
		SELECT results, expires_at FROM search_cache WHERE query = ?`,
		query).Scan(&raw, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache: %w", err)
	}
	if time.Now().UTC().After(expiresAt) {
		return nil, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return candidates, true, nil
}

// Put stores candidates for a query, replacing any previous entry.
func (c *Cache) Put(query string, candidates []rank.Candidate) error {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	now := time.Now().UTC()
	_, err = c.db.Exec(`
		INSERT INTO search_cache (query, results, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			results = excluded.results,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		query, string(raw), now, now.Add(c.ttl))
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// SweepExpired removes expired entries and returns how many were deleted.
func (c *Cache) SweepExpired() (int64, error) {
	result, err := c.db.Exec(
		`DELETE FROM search_cache WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep cache: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
