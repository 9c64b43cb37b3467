// Package export writes the effective binding table of a session.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/rebind"
)

const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Binding is one effective key assignment
type Binding struct {
	Context  string `toml:"context" yaml:"context"`
	Action   string `toml:"action" yaml:"action"`
	Name     string `toml:"name" yaml:"name"`
	Position int    `toml:"position" yaml:"position"`
	Key      string `toml:"key" yaml:"key"`
	Default  string `toml:"default" yaml:"default"`
	Mode     string `toml:"mode" yaml:"mode"`
	Custom   bool   `toml:"custom" yaml:"custom"`
}

// Document is the exported file layout
type Document struct {
	Bindings []Binding `toml:"binding" yaml:"bindings"`
}

// Bindings builds the binding table from packs, sorted by context then
// position. A nil classify uses key.Classify.
func Bindings(packs []rebind.Pack, classify key.Classifier) []Binding {
	if classify == nil {
		classify = key.Classify
	}

	out := make([]Binding, 0, len(packs))
	for _, p := range packs {
		out = append(out, Binding{
			Context:  p.ContextID,
			Action:   p.ActionID,
			Name:     p.DisplayName,
			Position: p.Position,
			Key:      p.CustomKey.String(),
			Default:  p.DefaultKey.String(),
			Mode:     classify(p.CustomKey).String(),
			Custom:   p.HasCustomKey(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Context != out[j].Context {
			return out[i].Context < out[j].Context
		}
		return out[i].Position < out[j].Position
	})

	return out
}

// WriteTOML writes bindings as an array of [[binding]] tables
func WriteTOML(w io.Writer, bindings []Binding) error {
	if err := toml.NewEncoder(w).Encode(Document{Bindings: bindings}); err != nil {
		return fmt.Errorf("failed to encode toml: %w", err)
	}
	return nil
}

func WriteYAML(w io.Writer, bindings []Binding) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Bindings: bindings}); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// Write dispatches on format
func Write(w io.Writer, format string, bindings []Binding) error {
	switch format {
	case FormatTOML, "":
		return WriteTOML(w, bindings)
	case FormatYAML:
		return WriteYAML(w, bindings)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
