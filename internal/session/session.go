// Package session coordinates startup and profile switching: legacy
// migration, profile selection, and binding the selected profile into
// the data pipeline and progress tracker.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claude/vyayam/internal/models"
	"github.com/claude/vyayam/internal/pipeline"
	"github.com/claude/vyayam/internal/profile"
	"github.com/claude/vyayam/internal/sheets"
	"github.com/claude/vyayam/internal/tracker"
)

// InstallPrompter is the installable-app-shell collaborator. The core
// only tracks whether the install offer is visible; the shell owns the
// actual prompt.
type InstallPrompter interface {
	PromptInstall(ctx context.Context) error
}

// StartState is the outcome of startup sequencing.
type StartState struct {
	// NeedsSelection is true when no profile is current and the UI
	// must show the profile picker before anything else.
	NeedsSelection bool
	Profile        models.Profile
	Load           pipeline.Result
}

type Session struct {
	mu       sync.Mutex
	profiles *profile.Store
	pipeline *pipeline.Pipeline
	tracker  *tracker.Tracker
	log      *slog.Logger

	catalog models.Catalog
	origin  pipeline.Origin

	prompter       InstallPrompter
	installOffered bool
}

func New(profiles *profile.Store, pl *pipeline.Pipeline, tr *tracker.Tracker, log *slog.Logger) *Session {
	return &Session{profiles: profiles, pipeline: pl, tracker: tr, log: log}
}

// Start runs the startup sequence: migrate legacy data, auto-select the
// existing current profile if there is one, and load the catalog. When
// no profile is current the caller shows the selection screen and calls
// SelectProfile; the catalog loads then.
func (s *Session) Start(ctx context.Context) StartState {
	if migrated, ok := s.profiles.MigrateLegacyData(ctx); ok {
		s.log.Info("legacy data migrated", "profile", migrated.ID)
	}

	cur, ok := s.profiles.Current()
	if !ok {
		return StartState{NeedsSelection: true}
	}

	res := s.loadCatalog(ctx, false)
	return StartState{Profile: cur, Load: res}
}

// SelectProfile binds the profile with id into the session: switches
// the current pointer, reloads the catalog (credentials differ per
// profile), and resets the tracker to the day-selection state. Returns
// false for an unknown id.
func (s *Session) SelectProfile(ctx context.Context, id string) (pipeline.Result, bool) {
	if !s.profiles.SwitchCurrent(ctx, id) {
		return pipeline.Result{}, false
	}
	s.tracker.Reset()
	return s.loadCatalog(ctx, false), true
}

func (s *Session) loadCatalog(ctx context.Context, isRefresh bool) pipeline.Result {
	var res pipeline.Result
	if isRefresh {
		res = s.pipeline.Refresh(ctx)
	} else {
		res = s.pipeline.Load(ctx)
	}

	s.mu.Lock()
	s.catalog = res.Catalog
	s.origin = res.Origin
	s.mu.Unlock()

	// Rehydrate any previously selected day against the new catalog
	if day := s.tracker.Day(); day != "" {
		s.tracker.SelectDay(ctx, day)
	}
	return res
}

// RefreshCatalog is the user-driven reload (retry semantics: failures
// clear the stored connection).
func (s *Session) RefreshCatalog(ctx context.Context) pipeline.Result {
	return s.loadCatalog(ctx, true)
}

// ConnectSheet stores a sheet connection on the current profile and
// loads from it immediately.
func (s *Session) ConnectSheet(ctx context.Context, apiKey, sheetURL string) (pipeline.Result, error) {
	if sheets.ExtractSpreadsheetID(sheetURL) == "" {
		return pipeline.Result{}, fmt.Errorf("%w: %q", sheets.ErrInvalidSourceURL, sheetURL)
	}

	cur, ok := s.profiles.Current()
	if !ok {
		return pipeline.Result{}, fmt.Errorf("no profile selected")
	}
	s.profiles.SetSheetsConnection(ctx, cur.ID, apiKey, sheetURL)
	return s.loadCatalog(ctx, true), nil
}

// Catalog returns the active catalog and its origin.
func (s *Session) Catalog() (models.Catalog, pipeline.Origin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog, s.origin
}

// CatalogDay looks up one day in the active catalog.
func (s *Session) CatalogDay(dayKey string) (models.Day, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.catalog[dayKey]
	return day, ok
}

// --- Install shell collaborator ---

// OfferInstall records that the shell can prompt for installation.
func (s *Session) OfferInstall(p InstallPrompter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompter = p
	s.installOffered = true
}

// InstallOffered reports whether the install offer is visible.
func (s *Session) InstallOffered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installOffered
}

// PromptInstall forwards to the shell's prompt, if an offer is active.
func (s *Session) PromptInstall(ctx context.Context) error {
	s.mu.Lock()
	p := s.prompter
	s.mu.Unlock()

	if p == nil {
		return fmt.Errorf("install is not available")
	}
	return p.PromptInstall(ctx)
}

// NotifyInstalled hides the offer after the shell reports completion.
func (s *Session) NotifyInstalled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installOffered = false
	s.prompter = nil
}

// DismissInstall hides the offer without installing.
func (s *Session) DismissInstall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installOffered = false
}
