package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ShelfPrice/pkg/logger"
)

// FileBundleStore persists engine bundles as a single JSON document on disk.
// Saves go through a temp file and rename so a crash mid-write never leaves
// a truncated bundle at the configured path.
type FileBundleStore struct {
	path string
	log  *logger.Logger
}

func NewFileBundleStore(path string, log *logger.Logger) *FileBundleStore {
	return &FileBundleStore{path: path, log: log}
}

// Save writes the bundle as one unit.
func (s *FileBundleStore) Save(b *Bundle) error {
	b.SchemaVersion = BundleSchemaVersion

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}

	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit bundle: %w", err)
	}

	s.log.Info("model bundle saved",
		logger.String("path", s.path),
		logger.Int("bytes", len(raw)))
	return nil
}

// Load reads and decodes the bundle. It either returns a fully decoded
// bundle or an error; callers keep their prior state on failure.
func (s *FileBundleStore) Load() (*Bundle, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if b.SchemaVersion != BundleSchemaVersion {
		return nil, fmt.Errorf("bundle schema version %d, expected %d", b.SchemaVersion, BundleSchemaVersion)
	}

	s.log.Info("model bundle loaded",
		logger.String("path", s.path),
		logger.Bool("trained", b.Trained))
	return &b, nil
}
