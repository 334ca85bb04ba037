package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the durable persistence adapter: a catalog cache, per-day
// progress records, and a flat key/value settings table, all in one
// SQLite file. Persistence is best-effort: if the store cannot be
// opened, reads return empty results and writes are dropped, and
// callers keep working from their in-memory state.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the database at dir/vyayam.db and applies
// pending migrations. It never fails: on any error it logs a warning
// and returns a degraded store.
func Open(dir string, log *slog.Logger) *Store {
	db, err := open(dir)
	if err != nil {
		log.Warn("persistent store unavailable, continuing in-memory only", "error", err)
		return &Store{db: nil, log: log}
	}
	return &Store{db: db, log: log}
}

func open(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "vyayam.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations applies all pending embedded migrations to the database file.
func RunMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+dbPath)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Available reports whether the durable store is usable. Callers rarely
// need this; the adapter already degrades on its own.
func (s *Store) Available() bool {
	return s.db != nil
}

// Close closes the database. Safe on a degraded store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
