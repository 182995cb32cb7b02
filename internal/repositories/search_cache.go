package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/youtify/internal/match"
	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/shared"
)

// SearchCacheRepository persists search result pages with a TTL.
//
// Queries are normalized before use as keys so equivalent searches share
// an entry. Candidates are stored as a JSON array.
type SearchCacheRepository struct {
	db  *sql.DB
	ttl time.Duration
}

// CacheStats summarizes cache contents.
type CacheStats struct {
	Entries int       `json:"entries"`
	Expired int       `json:"expired"`
	Oldest  time.Time `json:"oldest,omitempty"`
}

// NewSearchCacheRepository creates a cache repository. A zero ttl means
// entries never expire.
func NewSearchCacheRepository(db *sql.DB, ttl time.Duration) *SearchCacheRepository {
	return &SearchCacheRepository{db: db, ttl: ttl}
}

// Get retrieves a cached result page for the query. Returns nil without
// an error on a miss or an expired entry.
func (r *SearchCacheRepository) Get(query string) (*models.CachedSearch, error) {
	key := shared.NormalizeSearchKey(query)

	row := r.db.QueryRow(`
		SELECT id, query, candidates, created_at
		FROM search_cache
		WHERE query = ?
	`, key)

	var cached models.CachedSearch
	var candidatesJSON string
	if err := row.Scan(&cached.ID, &cached.Query, &candidatesJSON, &cached.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if r.ttl > 0 && time.Since(cached.FetchedAt) > r.ttl {
		return nil, nil
	}

	if err := json.Unmarshal([]byte(candidatesJSON), &cached.Candidates); err != nil {
		return nil, fmt.Errorf("failed to decode cached candidates: %w", err)
	}

	return &cached, nil
}

// Put stores a result page for the query, replacing any previous entry.
func (r *SearchCacheRepository) Put(query string, candidates []models.CandidateTrack) error {
	key := shared.NormalizeSearchKey(query)

	data, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO search_cache (id, query, candidates, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			candidates = excluded.candidates,
			created_at = excluded.created_at
	`, shared.GenerateID(), key, string(data), time.Now())
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// Clear removes every cache entry and returns the number removed.
func (r *SearchCacheRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM search_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return result.RowsAffected()
}

// Prune removes expired entries and returns the number removed. A zero
// TTL makes this a no-op.
func (r *SearchCacheRepository) Prune() (int64, error) {
	if r.ttl <= 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-r.ttl)
	result, err := r.db.Exec("DELETE FROM search_cache WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	return result.RowsAffected()
}

// Stats reports entry counts and the age of the oldest entry.
func (r *SearchCacheRepository) Stats() (*CacheStats, error) {
	stats := &CacheStats{}

	if err := r.db.QueryRow("SELECT COUNT(*) FROM search_cache").Scan(&stats.Entries); err != nil {
		return nil, fmt.Errorf("failed to count cache entries: %w", err)
	}

	if r.ttl > 0 {
		cutoff := time.Now().Add(-r.ttl)
		if err := r.db.QueryRow("SELECT COUNT(*) FROM search_cache WHERE created_at < ?", cutoff).Scan(&stats.Expired); err != nil {
			return nil, fmt.Errorf("failed to count expired entries: %w", err)
		}
	}

	if stats.Entries > 0 {
		var oldest time.Time
		if err := r.db.QueryRow("SELECT MIN(created_at) FROM search_cache").Scan(&oldest); err == nil {
			stats.Oldest = oldest
		}
	}

	return stats, nil
}

// CachingSearch wraps a live search function with the cache. Hits skip the
// network entirely; cache read or write failures are logged and degrade to
// the live search.
func CachingSearch(cache *SearchCacheRepository, live match.CandidateSearchFn, logger *log.Logger) match.CandidateSearchFn {
	return func(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error) {
		if cached, err := cache.Get(query); err != nil {
			logger.Warn("cache read failed", "query", query, "error", err)
		} else if cached != nil {
			return cached.Candidates, nil
		}

		candidates, err := live(ctx, query, limit)
		if err != nil {
			return nil, err
		}

		if err := cache.Put(query, candidates); err != nil {
			logger.Warn("cache write failed", "query", query, "error", err)
		}

		return candidates, nil
	}
}
