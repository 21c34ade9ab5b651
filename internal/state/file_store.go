package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	overlayFilename      = "download_overlay.json"
	entitlementsFilename = "entitlements.json"
)

// FileStore keeps the overlay and entitlement set as two JSON files under
// a data directory.
type FileStore struct {
	mu      sync.Mutex
	baseDir string
}

// NewFileStore creates the data directory if missing.
func NewFileStore(baseDir string) (*FileStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("state dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// LoadOverlay reads the extras overlay. Missing or corrupt files load as
// an empty overlay.
func (s *FileStore) LoadOverlay() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	overlay := map[string]int{}
	s.readJSON(overlayFilename, &overlay)
	if overlay == nil {
		overlay = map[string]int{}
	}
	return overlay, nil
}

// SaveOverlay writes the extras overlay.
func (s *FileStore) SaveOverlay(overlay map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if overlay == nil {
		overlay = map[string]int{}
	}
	return s.writeJSON(overlayFilename, overlay)
}

// LoadEntitlements reads the entitlement id list. Missing or corrupt
// files load as an empty set.
func (s *FileStore) LoadEntitlements() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	s.readJSON(entitlementsFilename, &ids)
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// SaveEntitlements writes the entitlement id list.
func (s *FileStore) SaveEntitlements(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ids == nil {
		ids = []string{}
	}
	return s.writeJSON(entitlementsFilename, ids)
}

func (s *FileStore) readJSON(name string, dst any) {
	path := filepath.Join(s.baseDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("state file unreadable, starting empty", "file", name, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("state file corrupt, starting empty", "file", name, "error", err)
	}
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.baseDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
