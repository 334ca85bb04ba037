package models

import "time"

// MaxProfileNameLen is the longest display name a profile may have.
const MaxProfileNameLen = 20

// Profile is one local user identity. Profiles are not secured: any
// actor on the device can select or delete any profile.
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`

	// Optional Google Sheets connection. Cleared together on failure.
	SheetsURL string `json:"sheetsUrl,omitempty"`
	APIKey    string `json:"apiKey,omitempty"`

	// WorkoutProgress maps ISO dates (YYYY-MM-DD) to that day's snapshot.
	// Append/update only; never pruned.
	WorkoutProgress map[string]ProgressSnapshot `json:"workoutProgress"`

	Preferences Preferences `json:"preferences"`
}

// HasSheetsConnection reports whether remote-catalog credentials are stored.
func (p *Profile) HasSheetsConnection() bool {
	return p.SheetsURL != ""
}

// Preferences is the fixed set of per-profile settings.
type Preferences struct {
	Theme        string `json:"theme"`
	AutoAdvance  bool   `json:"autoAdvance"`
	ShowTimer    bool   `json:"showTimer"`
	SoundEnabled bool   `json:"soundEnabled"`
}

// DefaultPreferences returns the preferences a new profile starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        "light",
		AutoAdvance:  true,
		ShowTimer:    true,
		SoundEnabled: true,
	}
}

// AvatarOptions is the fixed glyph set a profile avatar is chosen from.
var AvatarOptions = []string{
	"💪", "🏋️", "🤸", "🏃", "🚴", "🧘", "🥋", "🏊",
	"🎯", "🔥", "⚡", "🌟", "🚀", "👑", "🎮", "🎨",
	"😊", "😎", "🤩", "😇", "🤗", "😋", "🤔", "😴",
}

// ValidAvatar reports whether glyph is one of AvatarOptions.
func ValidAvatar(glyph string) bool {
	for _, a := range AvatarOptions {
		if a == glyph {
			return true
		}
	}
	return false
}

// ProfileExport is the downloadable backup document for one profile.
type ProfileExport struct {
	Profile    Profile   `json:"profile"`
	ExportDate time.Time `json:"exportDate"`
	AppVersion string    `json:"appVersion"`
}
