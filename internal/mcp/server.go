package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Vyayam", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Vyayam workout tracker. Query the weekly workout plan, training profiles, and per-day completion history."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutCatalog, Handler: h.getWorkoutCatalog},
		server.ServerTool{Tool: toolListProfiles, Handler: h.listProfiles},
		server.ServerTool{Tool: toolGetProgressHistory, Handler: h.getProgressHistory},
		server.ServerTool{Tool: toolGetTodayProgress, Handler: h.getTodayProgress},
	)

	s.AddResources(
		server.ServerResource{Resource: resWeeklyPlan, Handler: h.weeklyPlan},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resWeeklyPlan = mcp.NewResource(
	"vyayam://weekly_plan",
	"Weekly Plan",
	mcp.WithResourceDescription("The active weekly workout plan: all days with exercises, sets/reps, and rest days marked"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) weeklyPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cat, origin := h.ds.ActiveCatalog()

	data, err := json.MarshalIndent(map[string]any{
		"origin": origin,
		"days":   cat,
	}, "", "  ")
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
