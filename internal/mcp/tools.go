package mcp

import (
	"context"
	"time"

	"github.com/claude/vyayam/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetWorkoutCatalog = mcp.NewTool("get_workout_catalog",
	mcp.WithDescription("Get the active weekly workout plan. Returns every day with its exercises, sets/reps prescriptions, and whether it is a rest day, plus where the plan came from (remote sheet or built-in)."),
)

var toolListProfiles = mcp.NewTool("list_profiles",
	mcp.WithDescription("List all training profiles with name, avatar, and last-active time. Marks which profile is currently selected."),
)

var toolGetProgressHistory = mcp.NewTool("get_progress_history",
	mcp.WithDescription("Get saved workout progress records for a profile, newest first. Each record has the calendar date, the plan day, and the completed exercise indices."),
	mcp.WithString("profile_id", mcp.Description("Profile ID. Defaults to the currently selected profile.")),
	mcp.WithString("start", mcp.Description("Earliest date to include (YYYY-MM-DD). Defaults to the beginning of history.")),
	mcp.WithString("end", mcp.Description("Latest date to include (YYYY-MM-DD). Defaults to today.")),
)

var toolGetTodayProgress = mcp.NewTool("get_today_progress",
	mcp.WithDescription("Get today's progress record for a profile, if one exists."),
	mcp.WithString("profile_id", mcp.Description("Profile ID. Defaults to the currently selected profile.")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutCatalog(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, origin := h.ds.ActiveCatalog()

	result, err := mcp.NewToolResultJSON(map[string]any{
		"origin": origin,
		"days":   cat,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listProfiles(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profiles := h.ds.Profiles()

	currentID := ""
	if cur, ok := h.ds.CurrentProfile(); ok {
		currentID = cur.ID
	}

	type entry struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		Avatar     string    `json:"avatar"`
		LastActive time.Time `json:"lastActiveAt"`
		Current    bool      `json:"current"`
	}
	out := make([]entry, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, entry{
			ID:         p.ID,
			Name:       p.Name,
			Avatar:     p.Avatar,
			LastActive: p.LastActiveAt,
			Current:    p.ID == currentID,
		})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// parseDateParam validates an optional YYYY-MM-DD argument. Dates
// compare lexicographically in that format, so filtering is a string
// comparison against record keys.
func parseDateParam(req mcp.CallToolRequest, name string) (string, error) {
	s := req.GetString(name, "")
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(models.DateKey, s); err != nil {
		return "", err
	}
	return s, nil
}

// resolveProfileID falls back to the current profile when the tool call
// did not name one.
func (h *handlers) resolveProfileID(req mcp.CallToolRequest) (string, bool) {
	if id := req.GetString("profile_id", ""); id != "" {
		return id, true
	}
	if cur, ok := h.ds.CurrentProfile(); ok {
		return cur.ID, true
	}
	return "", false
}

func (h *handlers) getProgressHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := h.resolveProfileID(req)
	if !ok {
		return mcp.NewToolResultError("no profile selected; pass profile_id"), nil
	}

	start, err := parseDateParam(req, "start")
	if err != nil {
		return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
	}
	end, err := parseDateParam(req, "end")
	if err != nil {
		return mcp.NewToolResultError("invalid end date: " + err.Error()), nil
	}

	records := h.ds.ProgressHistory(ctx, id)
	if start != "" || end != "" {
		filtered := records[:0]
		for _, rec := range records {
			if start != "" && rec.Date < start {
				continue
			}
			if end != "" && rec.Date > end {
				continue
			}
			filtered = append(filtered, rec)
		}
		records = filtered
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTodayProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := h.resolveProfileID(req)
	if !ok {
		return mcp.NewToolResultError("no profile selected; pass profile_id"), nil
	}

	date := time.Now().Format(models.DateKey)
	rec, found := h.ds.ProgressOn(ctx, id, date)

	payload := map[string]any{"date": date, "found": found}
	if found {
		payload["record"] = rec
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
