package questions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sha1n/stackfeed/internal/domain"
)

const (
	// WatermarkFilename is the default watermark store filename
	WatermarkFilename = "watermarks.json"
)

// Watermarks persists, per (category, sort-mode) pair, the id of the most
// recently ingested question. It is the resumption boundary for incremental
// fetch: a run stops as soon as it encounters its watermark id upstream.
type Watermarks struct {
	path string
	keys map[string]string
}

// watermarkKey builds the storage key for a category and sort mode.
func watermarkKey(category string, sort domain.SortMode) string {
	return category + "_" + string(sort)
}

// LoadWatermarks reads the watermark store from disk. A missing or corrupt
// file reads as empty: both fail open toward re-scanning, which the id
// dedupe makes safe. Corruption logs a warning.
func LoadWatermarks(path string) *Watermarks {
	w := &Watermarks{path: path, keys: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Watermark store unreadable, starting empty", "path", path, "error", err)
		}
		return w
	}

	if err := json.Unmarshal(data, &w.keys); err != nil {
		slog.Warn("Watermark store is corrupt, starting empty", "path", path, "error", err)
		w.keys = make(map[string]string)
	}

	return w
}

// Get returns the last-ingested id for the key, and whether one exists.
func (w *Watermarks) Get(category string, sort domain.SortMode) (string, bool) {
	id, ok := w.keys[watermarkKey(category, sort)]
	return id, ok
}

// Set unconditionally overwrites the stored id for the key.
func (w *Watermarks) Set(category string, sort domain.SortMode, id string) {
	w.keys[watermarkKey(category, sort)] = id
}

// Save writes the watermark store to disk atomically.
func (w *Watermarks) Save() error {
	data, err := json.MarshalIndent(w.keys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal watermarks: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create watermark directory: %w", err)
	}

	tempPath := w.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write watermark temp file: %w", err)
	}

	if err := os.Rename(tempPath, w.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename watermark file: %w", err)
	}

	return nil
}
