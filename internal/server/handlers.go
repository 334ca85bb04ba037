package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/vyayam/internal/models"
	"github.com/claude/vyayam/internal/pipeline"
	"github.com/claude/vyayam/internal/profile"
	"github.com/go-chi/chi/v5"
)

// --- Profiles ---

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profiles.List())
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	p, err := s.profiles.Create(r.Context(), req.Name, req.Avatar)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, ok := s.session.SelectProfile(r.Context(), id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse(res))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	p.ID = chi.URLParam(r, "id")

	if !s.profiles.Update(r.Context(), p) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	updated, _ := s.profiles.Get(p.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if !s.profiles.Delete(r.Context(), chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := s.profiles.Export(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	p, _ := s.profiles.Get(id)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", profile.ExportFileName(p.Name, time.Now())))
	w.Write(data)
}

func (s *Server) handleImportProfile(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id, err := s.profiles.Import(r.Context(), data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, _ := s.profiles.Get(id)
	writeJSON(w, http.StatusCreated, p)
}

// --- Catalog ---

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	cat, origin := s.session.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"days":   cat,
		"origin": origin,
	})
}

func (s *Server) handleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse(s.session.RefreshCatalog(r.Context())))
}

func (s *Server) handleConnectSheet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey   string `json:"apiKey"`
		SheetURL string `json:"sheetUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	res, err := s.session.ConnectSheet(r.Context(), req.APIKey, req.SheetURL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse(res))
}

func (s *Server) handleDisconnectSheet(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.profiles.Current()
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no profile selected"})
		return
	}
	s.profiles.ClearSheetsConnection(r.Context(), cur.ID)
	writeJSON(w, http.StatusOK, catalogResponse(s.session.RefreshCatalog(r.Context())))
}

// --- Days and progress ---

func (s *Server) handleSelectDay(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "day")
	day, ok := s.session.CatalogDay(dayKey)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown day"})
		return
	}

	s.tracker.SelectDay(r.Context(), dayKey)
	writeJSON(w, http.StatusOK, s.dayResponse(dayKey, day))
}

func (s *Server) handleToggleExercise(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "day")
	day, ok := s.requireSelectedDay(w, dayKey)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(day.Exercises) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise index"})
		return
	}

	s.tracker.ToggleExercise(r.Context(), index)
	writeJSON(w, http.StatusOK, s.dayResponse(dayKey, day))
}

func (s *Server) handleRestComplete(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "day")
	day, ok := s.requireSelectedDay(w, dayKey)
	if !ok {
		return
	}
	if !day.IsRestDay {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "not a rest day"})
		return
	}

	s.tracker.MarkRestDayComplete(r.Context())
	writeJSON(w, http.StatusOK, s.dayResponse(dayKey, day))
}

func (s *Server) handleProgressHistory(w http.ResponseWriter, r *http.Request) {
	cur, ok := s.profiles.Current()
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no profile selected"})
		return
	}
	writeJSON(w, http.StatusOK, s.store.ProgressHistory(r.Context(), cur.ID))
}

// requireSelectedDay checks that dayKey exists in the catalog and is
// the tracker's selected day. Mutations against a stale day are
// rejected rather than silently re-keyed.
func (s *Server) requireSelectedDay(w http.ResponseWriter, dayKey string) (models.Day, bool) {
	day, ok := s.session.CatalogDay(dayKey)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown day"})
		return models.Day{}, false
	}
	if s.tracker.Day() != dayKey {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "day is not selected"})
		return models.Day{}, false
	}
	return day, true
}

// --- Install shell ---

func (s *Server) handleInstallState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"offered": s.session.InstallOffered()})
}

func (s *Server) handleInstallPrompt(w http.ResponseWriter, r *http.Request) {
	if err := s.session.PromptInstall(r.Context()); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"prompted": true})
}

func (s *Server) handleInstallDismiss(w http.ResponseWriter, r *http.Request) {
	s.session.DismissInstall()
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func catalogResponse(res pipeline.Result) map[string]any {
	body := map[string]any{
		"days":   res.Catalog,
		"origin": res.Origin,
	}
	if res.RemoteErr != nil {
		body["notice"] = notice(res.RemoteErr)
	}
	return body
}

func (s *Server) dayResponse(dayKey string, day models.Day) map[string]any {
	return map[string]any{
		"day":        dayKey,
		"title":      day.Title,
		"status":     s.tracker.DayStatus(day),
		"completed":  s.tracker.Completed(),
		"startIndex": s.tracker.StartIndex(len(day.Exercises)),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notice(err error) string {
	return "Could not load from Google Sheets (" + err.Error() + "). Showing the built-in plan instead."
}
