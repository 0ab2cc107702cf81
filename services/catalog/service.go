package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"streamvault/models"
)

// Service serves the content catalog from a JSON document, re-reading it
// whenever its modification time changes.
type Service struct {
	mu      sync.RWMutex
	fs      afero.Fs
	path    string
	cached  models.Catalog
	modTime time.Time
	loaded  bool
}

// NewService creates a catalog service reading path from the given filesystem.
// An empty path yields an empty catalog.
func NewService(filesystem afero.Fs, path string) *Service {
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}
	return &Service{fs: filesystem, path: strings.TrimSpace(path)}
}

// Path returns the catalog document location.
func (s *Service) Path() string {
	return s.path
}

// Load returns the current catalog. A missing document is not an error.
func (s *Service) Load() (models.Catalog, error) {
	if s.path == "" {
		return models.Catalog{}, nil
	}

	info, err := s.fs.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Catalog{}, nil
	}
	if err != nil {
		return models.Catalog{}, fmt.Errorf("stat catalog: %w", err)
	}

	s.mu.RLock()
	if s.loaded && info.ModTime().Equal(s.modTime) {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var catalog models.Catalog
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &catalog); err != nil {
			return models.Catalog{}, fmt.Errorf("decode catalog: %w", err)
		}
	}

	s.mu.Lock()
	s.cached = catalog
	s.modTime = info.ModTime()
	s.loaded = true
	s.mu.Unlock()

	return catalog, nil
}
