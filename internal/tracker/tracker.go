// Package tracker holds the per-day completion state machine. State is
// transient per selected day; every mutation flushes a Progress
// Snapshot to durable storage and mirrors it into the owning profile.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/vyayam/internal/models"
	"github.com/claude/vyayam/internal/profile"
	"github.com/claude/vyayam/internal/storage"
)

// fallbackProfileID keys progress rows when no profile is selected.
const fallbackProfileID = "default"

// Action is the state of the start-workout control.
type Action string

const (
	ActionStart    Action = "start"    // nothing completed yet
	ActionContinue Action = "continue" // resume at the first incomplete exercise
	ActionComplete Action = "complete" // everything done, control disabled
)

// Status describes the completion display for the selected day.
type Status struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Fraction  float64 `json:"fraction"`
	Action    Action  `json:"action"`
}

type Tracker struct {
	mu       sync.Mutex
	store    *storage.Store
	profiles *profile.Store
	log      *slog.Logger
	now      func() time.Time

	day       string
	completed map[int]bool
}

func New(store *storage.Store, profiles *profile.Store, log *slog.Logger) *Tracker {
	return &Tracker{
		store:     store,
		profiles:  profiles,
		log:       log,
		now:       time.Now,
		completed: make(map[int]bool),
	}
}

func (t *Tracker) profileID() string {
	if p, ok := t.profiles.Current(); ok {
		return p.ID
	}
	return fallbackProfileID
}

// SelectDay resets the transient state for dayKey, then rehydrates it
// from the snapshot persisted for (current profile, today, dayKey).
// Returns whether prior progress was found; a miss just means a clean
// slate, never an error.
func (t *Tracker) SelectDay(ctx context.Context, dayKey string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.day = dayKey
	t.completed = make(map[int]bool)

	date := t.now().Format(models.DateKey)
	rec, ok := t.store.GetProgress(ctx, t.profileID(), date)
	if !ok || rec.Snapshot.Day != dayKey {
		return false
	}
	t.completed = rec.Snapshot.CompletedSet()
	return true
}

// Day returns the selected day key, or "" before any selection.
func (t *Tracker) Day() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.day
}

// Reset clears the selection and completion state without persisting.
// Used when switching profiles.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.day = ""
	t.completed = make(map[int]bool)
}

// ToggleExercise flips completion of the exercise at index and persists.
func (t *Tracker) ToggleExercise(ctx context.Context, index int) {
	t.mu.Lock()
	if t.completed[index] {
		delete(t.completed, index)
	} else {
		t.completed[index] = true
	}
	t.mu.Unlock()

	t.SaveProgress(ctx)
}

// MarkRestDayComplete records the single logical rest-day "exercise"
// as done.
func (t *Tracker) MarkRestDayComplete(ctx context.Context) {
	t.mu.Lock()
	t.completed = map[int]bool{0: true}
	t.mu.Unlock()

	t.SaveProgress(ctx)
}

// SaveProgress writes the snapshot for (profile, today) durably, then
// mirrors it into the profile's progress map. The durable write happens
// first so a rehydration right after sees this save.
func (t *Tracker) SaveProgress(ctx context.Context) {
	t.mu.Lock()
	snap := models.SnapshotFromSet(t.day, t.completed, t.now())
	t.mu.Unlock()

	if snap.Day == "" {
		return
	}

	id := t.profileID()
	date := snap.Timestamp.Format(models.DateKey)

	t.store.SaveProgress(ctx, storage.ProgressRecord{
		ProfileID: id,
		Date:      date,
		Snapshot:  snap,
	})
	if id != fallbackProfileID {
		t.profiles.RecordProgress(ctx, id, date, snap)
	}
}

// Completed returns the completed indices in ascending order.
func (t *Tracker) Completed() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.SnapshotFromSet(t.day, t.completed, time.Time{}).CompletedExercises
}

// IsCompleted reports whether the exercise at index is done.
func (t *Tracker) IsCompleted(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed[index]
}

// StartIndex returns the exercise a workout should open at: the lowest
// incomplete index, scanning ascending so gaps resolve to the earliest
// hole.
func (t *Tracker) StartIndex(total int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < total; i++ {
		if !t.completed[i] {
			return i
		}
	}
	return 0
}

// DayStatus summarizes completion for the selected day. Rest days have
// exactly one logical exercise regardless of the catalog entry count.
func (t *Tracker) DayStatus(day models.Day) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := len(day.Exercises)
	if day.IsRestDay {
		total = 1
	}

	done := 0
	for i := 0; i < total; i++ {
		if t.completed[i] {
			done++
		}
	}

	st := Status{Completed: done, Total: total}
	if total > 0 {
		st.Fraction = float64(done) / float64(total)
	}
	switch {
	case done == 0:
		st.Action = ActionStart
	case done == total:
		st.Action = ActionComplete
	default:
		st.Action = ActionContinue
	}
	return st
}
