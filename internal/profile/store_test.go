package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/vyayam/internal/models"
	"github.com/claude/vyayam/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) (*Store, *storage.Store) {
	t.Helper()
	db := storage.Open(t.TempDir(), testLogger())
	t.Cleanup(func() { db.Close() })
	return NewStore(context.Background(), db, "test", testLogger()), db
}

// TestCreateValidation verifies name trimming, the empty-name rejection,
// the length cap, and the avatar whitelist.
func TestCreateValidation(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "   ", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("whitespace name: err = %v, want ErrEmptyName", err)
	}
	if _, err := s.Create(ctx, "abcdefghijklmnopqrstu", ""); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("21-char name: err = %v, want ErrNameTooLong", err)
	}
	if _, err := s.Create(ctx, "Asha", "🦄"); !errors.Is(err, ErrInvalidAvatar) {
		t.Errorf("unknown avatar: err = %v, want ErrInvalidAvatar", err)
	}

	p, err := s.Create(ctx, "  Asha  ", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Asha" {
		t.Errorf("name = %q, want trimmed %q", p.Name, "Asha")
	}
	if p.Avatar != models.AvatarOptions[0] {
		t.Errorf("avatar = %q, want default %q", p.Avatar, models.AvatarOptions[0])
	}
	if p.Preferences != models.DefaultPreferences() {
		t.Errorf("preferences = %+v", p.Preferences)
	}
	if p.WorkoutProgress == nil || len(p.WorkoutProgress) != 0 {
		t.Errorf("progress map = %v, want empty", p.WorkoutProgress)
	}
}

// TestUniqueIDs verifies creating many profiles in rapid succession
// yields distinct IDs.
func TestUniqueIDs(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := s.Create(ctx, "User", "")
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %q at iteration %d", p.ID, i)
		}
		seen[p.ID] = true
	}
}

// TestCurrentPointerInvariant verifies the current pointer always
// references an existing profile or is unset.
func TestCurrentPointerInvariant(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	if _, ok := s.Current(); ok {
		t.Fatal("fresh store should have no current profile")
	}

	p, _ := s.Create(ctx, "Asha", "")
	if !s.SwitchCurrent(ctx, p.ID) {
		t.Fatal("switch to known id failed")
	}

	if s.SwitchCurrent(ctx, "user_nope") {
		t.Fatal("switch to unknown id should return false")
	}
	cur, ok := s.Current()
	if !ok || cur.ID != p.ID {
		t.Fatal("failed switch must leave the current profile unchanged")
	}

	if !s.Delete(ctx, p.ID) {
		t.Fatal("delete failed")
	}
	if _, ok := s.Current(); ok {
		t.Fatal("deleting the current profile must clear the pointer")
	}
	if s.Delete(ctx, p.ID) {
		t.Fatal("deleting an unknown id should return false")
	}
}

// TestSwitchBumpsLastActive verifies selection updates lastActiveAt and
// that List orders by it, most recent first.
func TestSwitchBumpsLastActive(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	clock := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	a, _ := s.Create(ctx, "A", "")
	clock = clock.Add(time.Minute)
	b, _ := s.Create(ctx, "B", "")

	clock = clock.Add(time.Minute)
	s.SwitchCurrent(ctx, a.ID)

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("list order = [%s %s], want A first", list[0].Name, list[1].Name)
	}
}

// TestUpdateUnknownProfile verifies upsert-by-id refuses unknown IDs.
func TestUpdateUnknownProfile(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	if s.Update(ctx, models.Profile{ID: "user_ghost", Name: "Ghost"}) {
		t.Fatal("update of unknown id should return false")
	}

	p, _ := s.Create(ctx, "Asha", "")
	s.SwitchCurrent(ctx, p.ID)
	p.Name = "Renamed"
	if !s.Update(ctx, p) {
		t.Fatal("update failed")
	}
	if cur, _ := s.Current(); cur.Name != "Renamed" {
		t.Errorf("current name = %q, updating the current profile must refresh it", cur.Name)
	}
}

// TestPersistenceRoundTrip verifies the profile set and current pointer
// survive a store reload.
func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := storage.Open(t.TempDir(), testLogger())
	defer db.Close()

	s := NewStore(ctx, db, "test", testLogger())
	p, _ := s.Create(ctx, "Asha", "🏃")
	s.SwitchCurrent(ctx, p.ID)
	s.SetSheetsConnection(ctx, p.ID, "key-1", "https://docs.google.com/spreadsheets/d/abc/edit")

	reloaded := NewStore(ctx, db, "test", testLogger())
	cur, ok := reloaded.Current()
	if !ok {
		t.Fatal("current profile lost across reload")
	}
	if cur.ID != p.ID || cur.Name != "Asha" || cur.Avatar != "🏃" {
		t.Errorf("reloaded profile = %+v", cur)
	}
	if cur.APIKey != "key-1" || !cur.HasSheetsConnection() {
		t.Errorf("sheets connection lost: %+v", cur)
	}
}

// TestMigrateLegacyDataIdempotent verifies running the migration twice
// produces exactly one default profile.
func TestMigrateLegacyDataIdempotent(t *testing.T) {
	ctx := context.Background()
	db := storage.Open(t.TempDir(), testLogger())
	defer db.Close()

	db.SetSetting(ctx, "vyayam_sheet_url", "https://docs.google.com/spreadsheets/d/legacy/edit")
	db.SetSetting(ctx, "vyayam_api_key", "legacy-key")

	s := NewStore(ctx, db, "test", testLogger())
	migrated, ok := s.MigrateLegacyData(ctx)
	if !ok {
		t.Fatal("migration should run when legacy keys exist")
	}
	if migrated.Name != "Default User" {
		t.Errorf("name = %q, want Default User", migrated.Name)
	}
	if migrated.SheetsURL == "" || migrated.APIKey != "legacy-key" {
		t.Errorf("credentials not copied: %+v", migrated)
	}
	if cur, _ := s.Current(); cur.ID != migrated.ID {
		t.Error("migrated profile should be current")
	}
	if _, ok := db.GetSetting(ctx, "vyayam_sheet_url"); ok {
		t.Error("legacy sheet url key should be deleted")
	}
	if _, ok := db.GetSetting(ctx, "vyayam_api_key"); ok {
		t.Error("legacy api key should be deleted")
	}

	if _, ok := s.MigrateLegacyData(ctx); ok {
		t.Fatal("second migration should be a no-op")
	}
	if got := len(s.List()); got != 1 {
		t.Fatalf("profiles after double migration = %d, want 1", got)
	}
}

// TestMigrateCreatesDefaultWhenEmpty verifies a fresh install with no
// legacy keys still gets a default profile.
func TestMigrateCreatesDefaultWhenEmpty(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	if _, ok := s.MigrateLegacyData(ctx); !ok {
		t.Fatal("migration should create a default profile on empty stores")
	}
	if got := len(s.List()); got != 1 {
		t.Fatalf("profiles = %d, want 1", got)
	}
}

// TestExportImport verifies the backup round-trip and ID re-keying on
// collision.
func TestExportImport(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	p, _ := s.Create(ctx, "Asha", "🏃")
	s.RecordProgress(ctx, p.ID, "2026-08-31", models.ProgressSnapshot{
		Day: "day1", CompletedExercises: []int{0, 1}, Timestamp: time.Now(),
	})

	data, err := s.Export(p.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, field := range []string{"profile", "exportDate", "appVersion"} {
		if _, ok := doc[field]; !ok {
			t.Errorf("export missing %q", field)
		}
	}

	// Importing into the same store collides on ID and re-keys
	newID, err := s.Import(ctx, data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if newID == p.ID {
		t.Fatal("import should re-key a colliding profile ID")
	}
	imported, ok := s.Get(newID)
	if !ok {
		t.Fatal("imported profile missing")
	}
	if imported.Name != "Asha" || len(imported.WorkoutProgress) != 1 {
		t.Errorf("imported profile = %+v", imported)
	}

	if _, err := s.Export("user_ghost"); err == nil {
		t.Error("exporting an unknown profile should fail")
	}
}

func TestExportFileName(t *testing.T) {
	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	if got, want := ExportFileName("Default User", at), "default-user-2026-08-31.json"; got != want {
		t.Errorf("ExportFileName = %q, want %q", got, want)
	}
	if got, want := ExportFileName("Asha", at), "asha-2026-08-31.json"; got != want {
		t.Errorf("ExportFileName = %q, want %q", got, want)
	}
}
