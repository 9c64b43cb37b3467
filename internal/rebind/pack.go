package rebind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/mapping"
)

var (
	// ErrInvariant marks state that should be impossible when the host and
	// its mapping data are configured correctly. Callers treat it as fatal.
	ErrInvariant = errors.New("rebind invariant violated")

	ErrNoRemappableContexts = fmt.Errorf("%w: no context has a remappable mapping", ErrInvariant)
	ErrNoPacks              = fmt.Errorf("%w: no rebind packs stored", ErrInvariant)
	ErrNoPacksForMode       = fmt.Errorf("%w: no rebind packs for input mode", ErrInvariant)
)

// Pack is the saved state of one remappable entry.
//
// Position is the only way to find the entry again: mapping contexts carry
// no stable per-entry identifier, so a pack whose entry moves is dropped on
// the next reconcile and rediscovered at its new position with default keys.
type Pack struct {
	ContextID   string  `yaml:"context_id"`
	ActionID    string  `yaml:"action_id"`
	DefaultKey  key.Key `yaml:"default_key"`
	CustomKey   key.Key `yaml:"custom_key"`
	DisplayName string  `yaml:"display_name"`
	Position    int     `yaml:"position"`
}

func newPack(contextID string, l mapping.Listing) (Pack, error) {
	p := Pack{
		ContextID:   contextID,
		ActionID:    l.Action,
		DefaultKey:  l.Key,
		CustomKey:   l.Key,
		DisplayName: l.DisplayName,
		Position:    l.Position,
	}
	if err := p.Validate(); err != nil {
		return Pack{}, err
	}
	return p, nil
}

// Equal reports whether two packs describe the same binding. DefaultKey is
// informational and does not take part.
func (p Pack) Equal(o Pack) bool {
	return p.ContextID == o.ContextID &&
		p.ActionID == o.ActionID &&
		p.CustomKey == o.CustomKey &&
		p.DisplayName == o.DisplayName &&
		p.Position == o.Position
}

// HasCustomKey reports whether the pack is rebound away from its default
func (p Pack) HasCustomKey() bool {
	return p.DefaultKey != p.CustomKey
}

// Validate checks the pack invariants
func (p Pack) Validate() error {
	switch {
	case p.ContextID == "":
		return fmt.Errorf("%w: pack has no context", ErrInvariant)
	case p.ActionID == "":
		return fmt.Errorf("%w: pack %s[%d] has no action", ErrInvariant, p.ContextID, p.Position)
	case !p.DefaultKey.IsValid():
		return fmt.Errorf("%w: pack %s[%d] has invalid default key %q", ErrInvariant, p.ContextID, p.Position, p.DefaultKey)
	case !p.CustomKey.IsValid():
		return fmt.Errorf("%w: pack %s[%d] has invalid custom key %q", ErrInvariant, p.ContextID, p.Position, p.CustomKey)
	case strings.TrimSpace(p.DisplayName) == "":
		return fmt.Errorf("%w: pack %s[%d] has no display name", ErrInvariant, p.ContextID, p.Position)
	case p.Position < 0:
		return fmt.Errorf("%w: pack %s has negative position %d", ErrInvariant, p.ContextID, p.Position)
	}
	return nil
}

func (p Pack) String() string {
	return fmt.Sprintf("%s[%d] %s (%s)", p.ContextID, p.Position, p.DisplayName, p.CustomKey)
}

// matches reports whether v still holds this pack's entry at its position
func (p Pack) matches(v mapping.View) bool {
	if v.ID() != p.ContextID || v.Len() <= p.Position {
		return false
	}

	e, err := v.Entry(p.Position)
	if err != nil || !e.Remappable {
		return false
	}

	return e.Action == p.ActionID && e.DisplayName() == p.DisplayName
}
