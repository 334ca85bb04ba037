package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claude/vyayam/internal/models"
)

// ExportFileName builds the download name for a profile backup:
// the lowercased, dash-joined profile name plus the calendar date.
func ExportFileName(name string, at time.Time) string {
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return fmt.Sprintf("%s-%s.json", slug, at.Format("2006-01-02"))
}

// Export builds the downloadable backup document for one profile.
func (s *Store) Export(id string) ([]byte, error) {
	p, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", id)
	}

	doc := struct {
		Profile    any    `json:"profile"`
		ExportDate string `json:"exportDate"`
		AppVersion string `json:"appVersion"`
	}{
		Profile:    p,
		ExportDate: s.now().UTC().Format("2006-01-02"),
		AppVersion: s.version,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Import restores a profile from an exported document (or a bare
// profile object, for backups made by hand). A profile whose ID
// collides with an existing one is re-keyed rather than overwritten.
func (s *Store) Import(ctx context.Context, data []byte) (string, error) {
	var doc struct {
		Profile json.RawMessage `json:"profile"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parsing import: %w", err)
	}
	raw := doc.Profile
	if raw == nil {
		raw = data
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("parsing profile: %w", err)
	}
	if p.ID == "" || p.Name == "" {
		return "", fmt.Errorf("import is missing profile id or name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; exists {
		p.ID = newProfileID()
	}
	s.profiles[p.ID] = p
	s.persistLocked(ctx)

	s.log.Info("profile imported", "id", p.ID, "name", p.Name)
	return p.ID, nil
}
