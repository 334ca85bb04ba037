package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/vyayam/internal/profile"
	"github.com/claude/vyayam/internal/session"
	"github.com/claude/vyayam/internal/storage"
	"github.com/claude/vyayam/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	session  *session.Session
	profiles *profile.Store
	tracker  *tracker.Tracker
	store    *storage.Store
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(sess *session.Session, profiles *profile.Store, tr *tracker.Tracker, store *storage.Store, log *slog.Logger) *Server {
	s := &Server{
		session:  sess,
		profiles: profiles,
		tracker:  tr,
		store:    store,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/profiles", s.handleListProfiles)
		r.Post("/profiles", s.handleCreateProfile)
		r.Post("/profiles/import", s.handleImportProfile)
		r.Post("/profiles/{id}/select", s.handleSelectProfile)
		r.Put("/profiles/{id}", s.handleUpdateProfile)
		r.Delete("/profiles/{id}", s.handleDeleteProfile)
		r.Get("/profiles/{id}/export", s.handleExportProfile)

		r.Get("/catalog", s.handleGetCatalog)
		r.Post("/catalog/refresh", s.handleRefreshCatalog)

		r.Post("/sheets/connect", s.handleConnectSheet)
		r.Delete("/sheets", s.handleDisconnectSheet)

		r.Post("/days/{day}/select", s.handleSelectDay)
		r.Post("/days/{day}/exercises/{index}/toggle", s.handleToggleExercise)
		r.Post("/days/{day}/rest-complete", s.handleRestComplete)

		r.Get("/progress", s.handleProgressHistory)

		r.Get("/install", s.handleInstallState)
		r.Post("/install/prompt", s.handleInstallPrompt)
		r.Post("/install/dismiss", s.handleInstallDismiss)
	})
}

// SetFrontend mounts the embedded app shell filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		f, err := webFS.Open(r.URL.Path[1:])
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
