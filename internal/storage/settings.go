package storage

import "context"

// Flat key/value settings. This is the pre-profile storage surface:
// the serialized profile set, the current-profile pointer, and the
// legacy single-user sheet credentials all live here.

// GetSetting returns the value for key. ok is false for a missing key
// or an unavailable store.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool) {
	if s.db == nil {
		return "", false
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// SetSetting stores value under key.
func (s *Store) SetSetting(ctx context.Context, key, value string) {
	if s.db == nil {
		return
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		s.log.Warn("writing setting", "key", key, "error", err)
	}
}

// DeleteSetting removes key. Missing keys are not an error.
func (s *Store) DeleteSetting(ctx context.Context, key string) {
	if s.db == nil {
		return
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		s.log.Warn("deleting setting", "key", key, "error", err)
	}
}
