package models

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is the full weekly workout definition, keyed day1..day7.
type Catalog map[string]Day

// Day is one day's workout.
type Day struct {
	Title     string     `json:"title" yaml:"title"`
	IsRestDay bool       `json:"isRestDay,omitempty" yaml:"isRestDay,omitempty"`
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
}

// Exercise is a single catalog entry. Order within a day is significant:
// it defines the default progression order.
type Exercise struct {
	Name        string `json:"name" yaml:"name"`
	SetsReps    string `json:"sets" yaml:"sets"`
	VideoID     string `json:"videoId" yaml:"videoId"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DayKey builds a day identifier from a source label like "Day 3" or "3".
func DayKey(label string) string {
	return "day" + strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(label), "Day "))
}

// DayKeys returns the catalog's day identifiers in day1..day7 order.
func (c Catalog) DayKeys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every day has a title and at least one exercise.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("catalog has no days")
	}
	for key, day := range c {
		if day.Title == "" {
			return fmt.Errorf("day %s: missing title", key)
		}
		if len(day.Exercises) == 0 {
			return fmt.Errorf("day %s: no exercises", key)
		}
	}
	return nil
}

// Clone returns a deep copy. Exercise slices are copied so the receiver
// cannot be mutated through the result.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for key, day := range c {
		exercises := make([]Exercise, len(day.Exercises))
		copy(exercises, day.Exercises)
		day.Exercises = exercises
		out[key] = day
	}
	return out
}
