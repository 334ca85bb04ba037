package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/vyayam/internal/models"
	"github.com/claude/vyayam/internal/storage"
)

// Settings keys. usersKey and currentKey are the live layout; the
// legacy keys predate the profile system and survive only until
// MigrateLegacyData has run.
const (
	usersKey          = "vyayam_users"
	currentKey        = "vyayam_current_user"
	legacySheetURLKey = "vyayam_sheet_url"
	legacyAPIKeyKey   = "vyayam_api_key"
)

var (
	ErrEmptyName     = errors.New("profile name must not be empty")
	ErrNameTooLong   = errors.New("profile name is too long")
	ErrInvalidAvatar = errors.New("avatar is not one of the available options")
)

// Store owns the profile set and the current-profile pointer. The
// in-memory map is authoritative for the session; every mutation
// persists through the storage adapter before returning. At most one
// profile is current, and the pointer always references an existing
// profile or is unset.
type Store struct {
	mu       sync.Mutex
	store    *storage.Store
	log      *slog.Logger
	now      func() time.Time
	version  string
	profiles map[string]models.Profile
	current  string
}

// NewStore loads the persisted profile set and current pointer.
func NewStore(ctx context.Context, store *storage.Store, version string, log *slog.Logger) *Store {
	s := &Store{
		store:    store,
		log:      log,
		now:      time.Now,
		version:  version,
		profiles: make(map[string]models.Profile),
	}

	if raw, ok := store.GetSetting(ctx, usersKey); ok {
		if err := json.Unmarshal([]byte(raw), &s.profiles); err != nil {
			log.Warn("discarding unreadable profile set", "error", err)
			s.profiles = make(map[string]models.Profile)
		}
	}
	if id, ok := store.GetSetting(ctx, currentKey); ok {
		if _, exists := s.profiles[id]; exists {
			s.current = id
		}
	}
	return s
}

func newProfileID() string {
	return "user_" + uuid.NewString()
}

// persistLocked writes the profile set; callers hold s.mu.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.profiles)
	if err != nil {
		s.log.Warn("encoding profile set", "error", err)
		return
	}
	s.store.SetSetting(ctx, usersKey, string(data))
}

func (s *Store) persistCurrentLocked(ctx context.Context) {
	if s.current == "" {
		s.store.DeleteSetting(ctx, currentKey)
		return
	}
	s.store.SetSetting(ctx, currentKey, s.current)
}

// Create validates and persists a new profile. The name is trimmed and
// must be non-empty and at most 20 characters; an empty avatar gets the
// default glyph.
func (s *Store) Create(ctx context.Context, name, avatar string) (models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Profile{}, ErrEmptyName
	}
	if len([]rune(name)) > models.MaxProfileNameLen {
		return models.Profile{}, ErrNameTooLong
	}
	if avatar == "" {
		avatar = models.AvatarOptions[0]
	}
	if !models.ValidAvatar(avatar) {
		return models.Profile{}, ErrInvalidAvatar
	}

	now := s.now()
	p := models.Profile{
		ID:              newProfileID(),
		Name:            name,
		Avatar:          avatar,
		CreatedAt:       now,
		LastActiveAt:    now,
		WorkoutProgress: make(map[string]models.ProgressSnapshot),
		Preferences:     models.DefaultPreferences(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	s.persistLocked(ctx)

	s.log.Info("profile created", "id", p.ID, "name", p.Name)
	return p, nil
}

// SwitchCurrent makes the profile with id current, bumping its
// lastActiveAt. Returns false for an unknown id, leaving the current
// pointer untouched.
func (s *Store) SwitchCurrent(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return false
	}
	p.LastActiveAt = s.now()
	s.profiles[id] = p
	s.current = id
	s.persistLocked(ctx)
	s.persistCurrentLocked(ctx)
	return true
}

// Current returns a copy of the current profile. Mutations must go back
// through Update: callers re-fetch before mutating rather than holding
// a copy across suspension points.
func (s *Store) Current() (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return models.Profile{}, false
	}
	p, ok := s.profiles[s.current]
	return p, ok
}

// Get returns a copy of the profile with id.
func (s *Store) Get(id string) (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	return p, ok
}

// Update replaces the stored profile with the same ID. Returns false
// when no such profile exists.
func (s *Store) Update(ctx context.Context, p models.Profile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.ID]; !ok {
		return false
	}
	s.profiles[p.ID] = p
	s.persistLocked(ctx)
	return true
}

// Delete removes the profile with id. Deleting the current profile
// clears the current pointer.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return false
	}
	delete(s.profiles, id)
	if s.current == id {
		s.current = ""
		s.persistCurrentLocked(ctx)
	}
	s.persistLocked(ctx)

	s.log.Info("profile deleted", "id", id)
	return true
}

// List returns all profiles, most recently active first.
func (s *Store) List() []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActiveAt.After(out[j].LastActiveAt)
	})
	return out
}

// SetSheetsConnection stores remote-catalog credentials on a profile.
func (s *Store) SetSheetsConnection(ctx context.Context, id, apiKey, sheetsURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return false
	}
	p.APIKey = apiKey
	p.SheetsURL = sheetsURL
	s.profiles[id] = p
	s.persistLocked(ctx)
	return true
}

// ClearSheetsConnection removes both credentials together.
func (s *Store) ClearSheetsConnection(ctx context.Context, id string) bool {
	return s.SetSheetsConnection(ctx, id, "", "")
}

// RecordProgress mirrors a saved snapshot into the profile's progress
// map and persists the profile. The durable progress row is written by
// the caller first, so a read after this returns the new state.
func (s *Store) RecordProgress(ctx context.Context, id, date string, snap models.ProgressSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return false
	}
	if p.WorkoutProgress == nil {
		p.WorkoutProgress = make(map[string]models.ProgressSnapshot)
	}
	p.WorkoutProgress[date] = snap
	s.profiles[id] = p
	s.persistLocked(ctx)
	return true
}

// MigrateLegacyData converts pre-profile storage into a default
// profile: if legacy credentials exist, or no profiles exist at all, it
// creates "Default User", copies the credentials in, deletes the legacy
// keys, and makes it current. Idempotent: with profiles present and no
// legacy keys it does nothing.
func (s *Store) MigrateLegacyData(ctx context.Context) (models.Profile, bool) {
	legacyURL, hasURL := s.store.GetSetting(ctx, legacySheetURLKey)
	legacyKey, hasKey := s.store.GetSetting(ctx, legacyAPIKeyKey)

	s.mu.Lock()
	hasProfiles := len(s.profiles) > 0
	s.mu.Unlock()

	if !hasURL && !hasKey && hasProfiles {
		return models.Profile{}, false
	}

	p, err := s.Create(ctx, "Default User", "🏋️")
	if err != nil {
		return models.Profile{}, false
	}

	if hasURL || hasKey {
		s.SetSheetsConnection(ctx, p.ID, legacyKey, legacyURL)
		s.store.DeleteSetting(ctx, legacySheetURLKey)
		s.store.DeleteSetting(ctx, legacyAPIKeyKey)
	}

	s.SwitchCurrent(ctx, p.ID)
	migrated, _ := s.Get(p.ID)

	s.log.Info("migrated legacy data to default profile", "id", p.ID)
	return migrated, true
}
