package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/claude/vyayam/internal/models"
)

// ProgressRecord is one durable progress row: a snapshot plus the
// profile it belongs to. Rows are keyed {profileID}_{YYYY-MM-DD}.
type ProgressRecord struct {
	ProfileID string                  `json:"profileId"`
	Date      string                  `json:"date"`
	Snapshot  models.ProgressSnapshot `json:"snapshot"`
}

func progressKey(profileID, date string) string {
	return profileID + "_" + date
}

// SaveProgress upserts the progress record for (profileID, date).
func (s *Store) SaveProgress(ctx context.Context, rec ProgressRecord) {
	if s.db == nil {
		return
	}

	completed, err := json.Marshal(rec.Snapshot.CompletedExercises)
	if err != nil {
		s.log.Warn("encoding progress", "error", err)
		return
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO progress (key, profile_id, day, completed, saved_at)
		 VALUES (?, ?, ?, ?, ?)`,
		progressKey(rec.ProfileID, rec.Date), rec.ProfileID, rec.Snapshot.Day,
		string(completed), rec.Snapshot.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.log.Warn("writing progress", "key", progressKey(rec.ProfileID, rec.Date), "error", err)
	}
}

// GetProgress returns the record for (profileID, date), if one exists.
func (s *Store) GetProgress(ctx context.Context, profileID, date string) (ProgressRecord, bool) {
	if s.db == nil {
		return ProgressRecord{}, false
	}

	var day, completed, stamp string
	err := s.db.QueryRowContext(ctx,
		`SELECT day, completed, saved_at FROM progress WHERE key = ?`,
		progressKey(profileID, date),
	).Scan(&day, &completed, &stamp)
	if err != nil {
		return ProgressRecord{}, false
	}

	rec, ok := buildRecord(s.log, profileID, date, day, completed, stamp)
	return rec, ok
}

// ProgressHistory returns all records for a profile, newest date first.
func (s *Store) ProgressHistory(ctx context.Context, profileID string) []ProgressRecord {
	if s.db == nil {
		return nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, day, completed, saved_at FROM progress
		 WHERE profile_id = ? ORDER BY key DESC`, profileID)
	if err != nil {
		s.log.Warn("reading progress history", "error", err)
		return nil
	}
	defer rows.Close()

	var records []ProgressRecord
	for rows.Next() {
		var key, day, completed, stamp string
		if err := rows.Scan(&key, &day, &completed, &stamp); err != nil {
			s.log.Warn("scanning progress row", "error", err)
			continue
		}
		date := key[len(profileID)+1:]
		if rec, ok := buildRecord(s.log, profileID, date, day, completed, stamp); ok {
			records = append(records, rec)
		}
	}
	return records
}

func buildRecord(log *slog.Logger, profileID, date, day, completed, stamp string) (ProgressRecord, bool) {
	var indices []int
	if err := json.Unmarshal([]byte(completed), &indices); err != nil {
		log.Warn("decoding progress", "error", err)
		return ProgressRecord{}, false
	}

	savedAt, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		savedAt = time.Time{}
	}

	return ProgressRecord{
		ProfileID: profileID,
		Date:      date,
		Snapshot: models.ProgressSnapshot{
			Day:                day,
			CompletedExercises: indices,
			Timestamp:          savedAt,
		},
	}, true
}
