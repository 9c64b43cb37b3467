package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/rebinder/internal/rebind"
)

const fileVersion = 1

type document struct {
	Version int           `yaml:"version"`
	Packs   []rebind.Pack `yaml:"packs"`
}

// FileStore keeps rebind packs in a YAML file
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. The file is created on the
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads all packs. A missing file holds no packs.
func (s *FileStore) Load() ([]rebind.Pack, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pack file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pack file: %w", err)
	}
	if doc.Version > fileVersion {
		return nil, fmt.Errorf("pack file version %d is newer than supported version %d", doc.Version, fileVersion)
	}

	return doc.Packs, nil
}

// Save replaces the file contents with packs
func (s *FileStore) Save(packs []rebind.Pack) error {
	data, err := yaml.Marshal(&document{Version: fileVersion, Packs: packs})
	if err != nil {
		return fmt.Errorf("failed to encode packs: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create pack directory: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file
	tmp, err := os.CreateTemp(dir, ".rebinds-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write packs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write packs: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace pack file: %w", err)
	}

	return nil
}
