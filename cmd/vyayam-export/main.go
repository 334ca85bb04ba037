// vyayam-export writes a profile backup file from a local data
// directory. The output file name matches the in-app download:
// {profile-name}-{date}.json.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/vyayam/internal/profile"
	"github.com/claude/vyayam/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	dataDir := flag.String("data", "data", "path to the Vyayam data directory")
	profileID := flag.String("profile", "", "profile ID to export (defaults to the current profile)")
	outDir := flag.String("out", ".", "directory to write the backup file into")
	list := flag.Bool("list", false, "list profiles and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("vyayam-export", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	db := storage.Open(*dataDir, log)
	defer db.Close()
	if !db.Available() {
		log.Error("no data found", "dir", *dataDir)
		os.Exit(1)
	}

	profiles := profile.NewStore(ctx, db, Version, log)

	if *list {
		for _, p := range profiles.List() {
			marker := " "
			if cur, ok := profiles.Current(); ok && cur.ID == p.ID {
				marker = "*"
			}
			fmt.Printf("%s %s  %s %s\n", marker, p.ID, p.Avatar, p.Name)
		}
		return
	}

	id := *profileID
	if id == "" {
		cur, ok := profiles.Current()
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: no current profile; pass -profile <id> (see -list)")
			os.Exit(1)
		}
		id = cur.ID
	}

	p, ok := profiles.Get(id)
	if !ok {
		log.Error("profile not found", "id", id)
		os.Exit(1)
	}

	data, err := profiles.Export(id)
	if err != nil {
		log.Error("export failed", "id", id, "error", err)
		os.Exit(1)
	}

	outPath := filepath.Join(*outDir, profile.ExportFileName(p.Name, time.Now()))
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Error("write failed", "path", outPath, "error", err)
		os.Exit(1)
	}
	log.Info("profile exported", "profile", p.Name, "path", outPath)
}
