package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/vyayam/internal/models"
)

// CacheKey is the single row the catalog cache uses. The cache is global
// (unscoped by profile): last writer wins.
const CacheKey = "current"

// CacheCatalog stores the catalog under the global cache key, stamped
// with the load time. Write failures are dropped.
func (s *Store) CacheCatalog(ctx context.Context, catalog models.Catalog, fetchedAt time.Time) {
	if s.db == nil {
		return
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		s.log.Warn("encoding catalog cache", "error", err)
		return
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO workout_cache (id, data, fetched_at) VALUES (?, ?, ?)`,
		CacheKey, string(data), fetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.log.Warn("writing catalog cache", "error", err)
	}
}

// CachedCatalog returns the last cached catalog and its capture time.
// ok is false when no cache exists or the store is unavailable.
func (s *Store) CachedCatalog(ctx context.Context) (models.Catalog, time.Time, bool) {
	if s.db == nil {
		return nil, time.Time{}, false
	}

	var data, stamp string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, fetched_at FROM workout_cache WHERE id = ?`, CacheKey,
	).Scan(&data, &stamp)
	if err != nil {
		return nil, time.Time{}, false
	}

	var catalog models.Catalog
	if err := json.Unmarshal([]byte(data), &catalog); err != nil {
		s.log.Warn("decoding catalog cache", "error", err)
		return nil, time.Time{}, false
	}

	fetchedAt, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		fetchedAt = time.Time{}
	}
	return catalog, fetchedAt, true
}
