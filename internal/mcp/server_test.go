package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/vyayam/internal/models"
	"github.com/claude/vyayam/internal/pipeline"
	"github.com/claude/vyayam/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeData is an in-memory DataSource for handler tests.
type fakeData struct {
	catalog  models.Catalog
	origin   pipeline.Origin
	profiles []models.Profile
	current  string
	history  map[string][]storage.ProgressRecord
}

func (f *fakeData) ActiveCatalog() (models.Catalog, pipeline.Origin) {
	return f.catalog, f.origin
}

func (f *fakeData) Profiles() []models.Profile { return f.profiles }

func (f *fakeData) CurrentProfile() (models.Profile, bool) {
	for _, p := range f.profiles {
		if p.ID == f.current {
			return p, true
		}
	}
	return models.Profile{}, false
}

func (f *fakeData) ProgressHistory(_ context.Context, profileID string) []storage.ProgressRecord {
	return f.history[profileID]
}

func (f *fakeData) ProgressOn(_ context.Context, profileID, date string) (storage.ProgressRecord, bool) {
	for _, rec := range f.history[profileID] {
		if rec.Date == date {
			return rec, true
		}
	}
	return storage.ProgressRecord{}, false
}

func testHandlers(f *fakeData) *handlers {
	return &handlers{ds: f, log: slog.Default()}
}

func resultJSON(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool returned error: %v", res.Content)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", res.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
}

func TestGetWorkoutCatalogTool(t *testing.T) {
	f := &fakeData{
		catalog: models.Catalog{
			"day1": {Title: "Legs", Exercises: []models.Exercise{{Name: "Squat", SetsReps: "4x8"}}},
		},
		origin: pipeline.OriginStatic,
	}

	res, err := testHandlers(f).getWorkoutCatalog(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Origin string         `json:"origin"`
		Days   models.Catalog `json:"days"`
	}
	resultJSON(t, res, &out)
	if out.Origin != "static" {
		t.Errorf("origin = %q, want static", out.Origin)
	}
	if out.Days["day1"].Title != "Legs" {
		t.Errorf("day1 title = %q, want Legs", out.Days["day1"].Title)
	}
}

func TestListProfilesTool(t *testing.T) {
	f := &fakeData{
		profiles: []models.Profile{
			{ID: "user_a", Name: "Ana", Avatar: "💪", LastActiveAt: time.Now()},
			{ID: "user_b", Name: "Ben", Avatar: "🏃"},
		},
		current: "user_a",
	}

	res, err := testHandlers(f).listProfiles(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}

	var out []struct {
		ID      string `json:"id"`
		Current bool   `json:"current"`
	}
	resultJSON(t, res, &out)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if !out[0].Current || out[1].Current {
		t.Errorf("current flags = %v/%v, want true/false", out[0].Current, out[1].Current)
	}
}

func TestGetProgressHistoryDefaultsToCurrent(t *testing.T) {
	f := &fakeData{
		profiles: []models.Profile{{ID: "user_a", Name: "Ana"}},
		current:  "user_a",
		history: map[string][]storage.ProgressRecord{
			"user_a": {{ProfileID: "user_a", Date: "2026-08-30", Snapshot: models.ProgressSnapshot{Day: "day1", CompletedExercises: []int{0, 1}}}},
		},
	}

	res, err := testHandlers(f).getProgressHistory(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}

	var out []storage.ProgressRecord
	resultJSON(t, res, &out)
	if len(out) != 1 || out[0].Snapshot.Day != "day1" {
		t.Errorf("records = %+v, want one day1 record", out)
	}
}

func TestGetProgressHistoryDateFilter(t *testing.T) {
	f := &fakeData{
		profiles: []models.Profile{{ID: "user_a", Name: "Ana"}},
		current:  "user_a",
		history: map[string][]storage.ProgressRecord{
			"user_a": {
				{ProfileID: "user_a", Date: "2026-08-30", Snapshot: models.ProgressSnapshot{Day: "day2"}},
				{ProfileID: "user_a", Date: "2026-08-15", Snapshot: models.ProgressSnapshot{Day: "day1"}},
				{ProfileID: "user_a", Date: "2026-07-01", Snapshot: models.ProgressSnapshot{Day: "day3"}},
			},
		},
	}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"start": "2026-08-01", "end": "2026-08-20"}
	res, err := testHandlers(f).getProgressHistory(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	var out []storage.ProgressRecord
	resultJSON(t, res, &out)
	if len(out) != 1 || out[0].Date != "2026-08-15" {
		t.Errorf("filtered = %+v, want only 2026-08-15", out)
	}

	req = mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"start": "not-a-date"}
	res, err = testHandlers(f).getProgressHistory(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected error result for malformed start date")
	}
}

func TestGetProgressHistoryNoProfile(t *testing.T) {
	res, err := testHandlers(&fakeData{}).getProgressHistory(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected error result with no profile and no profile_id")
	}
}

func TestGetTodayProgress(t *testing.T) {
	today := time.Now().Format(models.DateKey)
	f := &fakeData{
		profiles: []models.Profile{{ID: "user_a", Name: "Ana"}},
		current:  "user_a",
		history: map[string][]storage.ProgressRecord{
			"user_a": {{ProfileID: "user_a", Date: today, Snapshot: models.ProgressSnapshot{Day: "day3", CompletedExercises: []int{0}}}},
		},
	}

	res, err := testHandlers(f).getTodayProgress(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Found  bool                   `json:"found"`
		Record storage.ProgressRecord `json:"record"`
	}
	resultJSON(t, res, &out)
	if !out.Found {
		t.Fatal("found = false, want true")
	}
	if out.Record.Snapshot.Day != "day3" {
		t.Errorf("day = %q, want day3", out.Record.Snapshot.Day)
	}
}

func TestWeeklyPlanResource(t *testing.T) {
	f := &fakeData{
		catalog: models.Catalog{"day7": {Title: "Rest", IsRestDay: true}},
		origin:  pipeline.OriginRemote,
	}

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "vyayam://weekly_plan"
	contents, err := testHandlers(f).weeklyPlan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d, want 1", len(contents))
	}

	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T, want TextResourceContents", contents[0])
	}
	var out struct {
		Origin string         `json:"origin"`
		Days   models.Catalog `json:"days"`
	}
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Days["day7"].IsRestDay {
		t.Error("day7 lost its rest-day flag")
	}
}
