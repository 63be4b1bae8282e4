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
	// StoreFilename is the default question store filename
	StoreFilename = "questions.json"
)

// Store is the durable collection of ingested questions, persisted as a
// single JSON document. Reads and writes are whole-file; callers serialize
// read-modify-write cycles (see Service).
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll returns the full persisted collection. A missing store reads as an
// empty collection; a corrupt store also reads as empty but logs a warning
// so first-run and corruption remain distinguishable operationally.
func (s *Store) LoadAll() ([]domain.Question, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read question store: %w", err)
	}

	var qs []domain.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		slog.Warn("Question store is corrupt, treating as empty", "path", s.path, "error", err)
		return nil, nil
	}

	return qs, nil
}

// SaveAll replaces the persisted collection with the given sequence.
// Uses write-to-temp + rename so readers never observe a partial file.
func (s *Store) SaveAll(qs []domain.Question) error {
	if qs == nil {
		qs = []domain.Question{}
	}

	data, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write store temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename store file: %w", err)
	}

	return nil
}

// KnownIDs returns the set of stored question ids for O(1) membership tests.
func (s *Store) KnownIDs() (map[string]bool, error) {
	qs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(qs))
	for i := range qs {
		ids[qs[i].ID] = true
	}
	return ids, nil
}
