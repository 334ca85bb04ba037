// Package pipeline resolves the active workout catalog: remote sheet
// when the current profile has a connection, bundled static plan
// otherwise, with the last loaded catalog cached for inspection. It
// always produces a catalog; remote failures are carried in the
// result as a notice, never propagated as fatal.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/vyayam/internal/catalog"
	"github.com/claude/vyayam/internal/models"
	"github.com/claude/vyayam/internal/profile"
	"github.com/claude/vyayam/internal/sheets"
	"github.com/claude/vyayam/internal/storage"
)

// Source is a remote catalog provider.
type Source interface {
	Configure(apiKey, sheetURL string) error
	FetchCatalog(ctx context.Context) (models.Catalog, error)
}

// Compile-time check: the sheets client is a Source.
var _ Source = (*sheets.Client)(nil)

// NoSource stands in for "no remote source configured". Every call
// fails with ErrNotConfigured, which sends the pipeline straight to
// static data.
type NoSource struct{}

func (NoSource) Configure(apiKey, sheetURL string) error { return sheets.ErrNotConfigured }

func (NoSource) FetchCatalog(ctx context.Context) (models.Catalog, error) {
	return nil, sheets.ErrNotConfigured
}

// Origin says where a loaded catalog came from.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginStatic Origin = "static"
)

// Result is one completed load. RemoteErr, when set, is the non-fatal
// reason the remote source was not used; the UI layer turns it into a
// plain-language notice.
type Result struct {
	Catalog   models.Catalog
	Origin    Origin
	RemoteErr error
}

type Pipeline struct {
	store    *storage.Store
	profiles *profile.Store
	source   Source
	log      *slog.Logger
	now      func() time.Time
}

func New(store *storage.Store, profiles *profile.Store, source Source, log *slog.Logger) *Pipeline {
	return &Pipeline{store: store, profiles: profiles, source: source, log: log, now: time.Now}
}

// Load resolves the catalog on startup or profile switch. A remote
// failure here falls back without clearing credentials, unless it was
// an access denial (a permanently broken connection).
func (p *Pipeline) Load(ctx context.Context) Result {
	return p.load(ctx, false)
}

// Refresh is the user-driven reload. It behaves like Load, except any
// remote failure clears the stored credentials: the user just asked for
// this connection, so a failure now means it is broken, and clearing
// prevents an infinite retry loop.
func (p *Pipeline) Refresh(ctx context.Context) Result {
	return p.load(ctx, true)
}

func (p *Pipeline) load(ctx context.Context, isRetry bool) Result {
	cur, hasProfile := p.profiles.Current()
	if !hasProfile || !cur.HasSheetsConnection() {
		return p.loadStatic(ctx, nil)
	}

	if err := p.source.Configure(cur.APIKey, cur.SheetsURL); err != nil {
		// Stored URL no longer parses; it can never work again.
		p.profiles.ClearSheetsConnection(ctx, cur.ID)
		return p.loadStatic(ctx, err)
	}

	remote, err := p.source.FetchCatalog(ctx)
	if err == nil {
		p.store.CacheCatalog(ctx, remote, p.now())
		return Result{Catalog: remote, Origin: OriginRemote}
	}

	p.log.Warn("remote catalog fetch failed, falling back to static data", "error", err)
	if isRetry || sheets.IsAccessDenied(err) {
		p.profiles.ClearSheetsConnection(ctx, cur.ID)
		p.log.Info("cleared sheet connection after repeated failure", "profile", cur.ID)
	}
	return p.loadStatic(ctx, err)
}

func (p *Pipeline) loadStatic(ctx context.Context, remoteErr error) Result {
	static := catalog.Static()
	p.store.CacheCatalog(ctx, static, p.now())
	return Result{Catalog: static, Origin: OriginStatic, RemoteErr: remoteErr}
}

// Cached returns the last loaded catalog and its capture time, from the
// durable cache. ok is false when nothing has been cached yet.
func (p *Pipeline) Cached(ctx context.Context) (models.Catalog, time.Time, bool) {
	return p.store.CachedCatalog(ctx)
}
