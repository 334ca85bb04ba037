package models

import (
	"sort"
	"time"
)

// DateKey is the calendar-date format progress snapshots are keyed by.
const DateKey = "2006-01-02"

// ProgressSnapshot records the completion state for one profile on one
// calendar date. The same snapshot is stored durably under
// {profileID}_{date} and mirrored inside Profile.WorkoutProgress[date].
type ProgressSnapshot struct {
	Day                string    `json:"day"`
	CompletedExercises []int     `json:"completedExercises"`
	Timestamp          time.Time `json:"timestamp"`
}

// CompletedSet returns the snapshot's indices as a set.
func (s ProgressSnapshot) CompletedSet() map[int]bool {
	set := make(map[int]bool, len(s.CompletedExercises))
	for _, i := range s.CompletedExercises {
		set[i] = true
	}
	return set
}

// SnapshotFromSet builds a snapshot from a completed-index set, with
// indices sorted for a stable serialized form.
func SnapshotFromSet(day string, completed map[int]bool, at time.Time) ProgressSnapshot {
	indices := make([]int, 0, len(completed))
	for i := range completed {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return ProgressSnapshot{Day: day, CompletedExercises: indices, Timestamp: at}
}
