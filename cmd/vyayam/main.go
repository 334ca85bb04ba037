package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	vyayam "github.com/claude/vyayam"
	"github.com/claude/vyayam/internal/config"
	"github.com/claude/vyayam/internal/mcp"
	"github.com/claude/vyayam/internal/pipeline"
	"github.com/claude/vyayam/internal/profile"
	"github.com/claude/vyayam/internal/server"
	"github.com/claude/vyayam/internal/session"
	"github.com/claude/vyayam/internal/sheets"
	"github.com/claude/vyayam/internal/storage"
	"github.com/claude/vyayam/internal/tracker"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Vyayam starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *migrateOnly {
		if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
			log.Error("creating data dir failed", "error", err)
			os.Exit(1)
		}
		if err := storage.RunMigrations(filepath.Join(cfg.Data.Dir, "vyayam.db")); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()

	db := storage.Open(cfg.Data.Dir, log)
	defer db.Close()
	if !db.Available() {
		log.Warn("running without durable storage; progress will not survive restarts")
	}

	profiles := profile.NewStore(ctx, db, Version, log)
	source := sheets.New(cfg.Sheets.Range, cfg.Sheets.MaxFailures,
		time.Duration(cfg.Sheets.CooldownSeconds)*time.Second, log)
	pl := pipeline.New(db, profiles, source, log)
	tr := tracker.New(db, profiles, log)
	sess := session.New(profiles, pl, tr, log)

	state := sess.Start(ctx)
	if state.NeedsSelection {
		log.Info("no profile selected; waiting for selection via API")
	} else {
		log.Info("session started",
			"profile", state.Profile.Name,
			"catalog", state.Load.Origin,
		)
	}

	if *mcpMode {
		data := mcp.NewLocalData(sess, profiles, db)
		if err := mcpserver.ServeStdio(mcp.New(data, Version, log)); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := server.New(sess, profiles, tr, db, log)

	webRoot, err := fs.Sub(vyayam.WebFS, "web")
	if err != nil {
		log.Error("failed to load embedded app shell", "error", err)
		os.Exit(1)
	}
	srv.SetFrontend(webRoot)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("listen failed", "addr", addr, "error", err)
		os.Exit(1)
	}
	log.Info("server starting", "addr", addr)

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
