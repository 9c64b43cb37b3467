package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/rebinder/internal/key"
)

// File is the on-disk form of a mapping context
type File struct {
	ID       string      `yaml:"id"`
	Mappings []FileEntry `yaml:"mappings"`
}

type FileEntry struct {
	Action      string `yaml:"action"`
	Key         string `yaml:"key"`
	Name        string `yaml:"name,omitempty"`
	Remappable  bool   `yaml:"remappable"`
	DisplayName string `yaml:"display_name,omitempty"`
}

// Load reads a context file. The context id defaults to the file name
// without its extensions.
func Load(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}
	return Parse(data, defaultID(path))
}

// Parse decodes a context document
func Parse(data []byte, fallbackID string) (*Context, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse context: %w", err)
	}
	if f.ID == "" {
		f.ID = fallbackID
	}
	if f.ID == "" {
		return nil, fmt.Errorf("context id is required")
	}

	entries := make([]Entry, 0, len(f.Mappings))
	for i, m := range f.Mappings {
		e, err := m.entry()
		if err != nil {
			return nil, fmt.Errorf("context %s mapping %d: %w", f.ID, i, err)
		}
		entries = append(entries, e)
	}

	return New(f.ID, entries...), nil
}

func (m FileEntry) entry() (Entry, error) {
	if m.Action == "" {
		return Entry{}, fmt.Errorf("action is required")
	}

	e := Entry{
		Action:          m.Action,
		Name:            m.Name,
		Remappable:      m.Remappable,
		DisplayOverride: m.DisplayName,
	}
	if e.Name == "" {
		e.Name = m.Action
	}

	// Non-remappable entries may carry keys this tool does not model
	k, err := key.Parse(m.Key)
	if err != nil && m.Remappable {
		return Entry{}, err
	}
	e.Key = k

	return e, nil
}

func defaultID(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
