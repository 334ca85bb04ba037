package sheets

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/claude/vyayam/internal/models"
)

// youtubeIDRe matches the known YouTube URL shapes; the video ID is the
// second capture group and is valid only at exactly 11 characters.
var youtubeIDRe = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// defaultSetsReps is used when a row leaves the sets column blank.
const defaultSetsReps = "3x10"

// ParseRows turns a raw value range into a catalog. Row 0 is the
// header. Columns by fixed position: day, muscle groups, exercise name,
// sets/reps, (unused), video URL. Rows missing a day or exercise name
// are skipped. The first row seen for a day supplies its title; a title
// containing "rest" marks a rest day.
func ParseRows(values [][]string) (models.Catalog, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("%w: %d rows", ErrEmptyData, len(values))
	}

	catalog := models.Catalog{}
	for _, row := range values[1:] {
		day := cell(row, 0)
		exercise := cell(row, 2)
		if day == "" || exercise == "" {
			continue
		}

		dayKey := models.DayKey(day)
		if _, seen := catalog[dayKey]; !seen {
			muscleGroups := cell(row, 1)
			title := muscleGroups
			if title == "" {
				title = "Day " + strings.TrimPrefix(day, "Day ")
			}
			catalog[dayKey] = models.Day{
				Title:     title,
				IsRestDay: muscleGroups != "" && strings.Contains(strings.ToLower(muscleGroups), "rest"),
			}
		}

		setsReps := cell(row, 3)
		if setsReps == "" {
			setsReps = defaultSetsReps
		}

		entry := catalog[dayKey]
		entry.Exercises = append(entry.Exercises, models.Exercise{
			Name:     exercise,
			SetsReps: setsReps,
			VideoID:  ExtractYouTubeID(cell(row, 5)),
		})
		catalog[dayKey] = entry
	}

	return catalog, nil
}

// ExtractYouTubeID pulls an 11-character video ID out of a YouTube URL.
// Returns "" for unrecognized shapes.
func ExtractYouTubeID(videoURL string) string {
	if videoURL == "" {
		return ""
	}
	m := youtubeIDRe.FindStringSubmatch(videoURL)
	if m == nil || len(m[2]) != 11 {
		return ""
	}
	return m[2]
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
