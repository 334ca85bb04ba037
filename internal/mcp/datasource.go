package mcp

import (
	"context"

	"github.com/claude/vyayam/internal/models"
	"github.com/claude/vyayam/internal/pipeline"
	"github.com/claude/vyayam/internal/profile"
	"github.com/claude/vyayam/internal/session"
	"github.com/claude/vyayam/internal/storage"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	ActiveCatalog() (models.Catalog, pipeline.Origin)
	Profiles() []models.Profile
	CurrentProfile() (models.Profile, bool)
	ProgressHistory(ctx context.Context, profileID string) []storage.ProgressRecord
	ProgressOn(ctx context.Context, profileID, date string) (storage.ProgressRecord, bool)
}

// LocalData answers MCP queries from the in-process state: the active
// session catalog, the profile store, and durable progress rows.
type LocalData struct {
	session  *session.Session
	profiles *profile.Store
	store    *storage.Store
}

func NewLocalData(sess *session.Session, profiles *profile.Store, store *storage.Store) *LocalData {
	return &LocalData{session: sess, profiles: profiles, store: store}
}

// Compile-time check: *LocalData satisfies DataSource.
var _ DataSource = (*LocalData)(nil)

func (d *LocalData) ActiveCatalog() (models.Catalog, pipeline.Origin) {
	return d.session.Catalog()
}

func (d *LocalData) Profiles() []models.Profile {
	return d.profiles.List()
}

func (d *LocalData) CurrentProfile() (models.Profile, bool) {
	return d.profiles.Current()
}

func (d *LocalData) ProgressHistory(ctx context.Context, profileID string) []storage.ProgressRecord {
	return d.store.ProgressHistory(ctx, profileID)
}

func (d *LocalData) ProgressOn(ctx context.Context, profileID, date string) (storage.ProgressRecord, bool) {
	return d.store.GetProgress(ctx, profileID, date)
}
