package rebind

import (
	"fmt"

	"github.com/pleimann/rebinder/internal/key"
)

// Store is the ordered collection of rebind packs owned by a session
type Store struct {
	packs []*Pack
}

// NewStore creates a store holding copies of packs
func NewStore(packs ...Pack) *Store {
	s := &Store{}
	for _, p := range packs {
		s.packs = append(s.packs, &p)
	}
	return s
}

// Find returns the stored pack equal to candidate, or nil
func (s *Store) Find(candidate Pack) *Pack {
	for _, p := range s.packs {
		if p.Equal(candidate) {
			return p
		}
	}
	return nil
}

// InsertIfNew appends candidate unless an equal pack is already stored
func (s *Store) InsertIfNew(candidate Pack) bool {
	if s.Find(candidate) != nil {
		return false
	}
	s.packs = append(s.packs, &candidate)
	return true
}

// RetainWhere drops every pack for which keep returns false, preserving
// the order of survivors
func (s *Store) RetainWhere(keep func(*Pack) bool) {
	kept := s.packs[:0]
	for _, p := range s.packs {
		if keep(p) {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(s.packs); i++ {
		s.packs[i] = nil
	}
	s.packs = kept
}

// Clear empties the store
func (s *Store) Clear() {
	s.packs = nil
}

func (s *Store) Len() int {
	return len(s.packs)
}

// At returns the stored pack at index i
func (s *Store) At(i int) (*Pack, bool) {
	if i < 0 || i >= len(s.packs) {
		return nil, false
	}
	return s.packs[i], true
}

// Packs returns a copy of every stored pack in order
func (s *Store) Packs() []Pack {
	out := make([]Pack, len(s.packs))
	for i, p := range s.packs {
		out[i] = *p
	}
	return out
}

// ForMode returns the distinct packs whose custom key classifies as mode.
// An empty store or an empty result means no remappable action was set up
// for that device family, which is reported as an invariant violation.
func (s *Store) ForMode(mode key.Mode, classify key.Classifier) ([]Pack, error) {
	if len(s.packs) == 0 {
		return nil, ErrNoPacks
	}
	if classify == nil {
		classify = key.Classify
	}

	var out []Pack
	for _, p := range s.packs {
		if classify(p.CustomKey) != mode || containsEqual(out, *p) {
			continue
		}
		out = append(out, *p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoPacksForMode, mode)
	}
	return out, nil
}

func containsEqual(packs []Pack, candidate Pack) bool {
	for _, p := range packs {
		if p.Equal(candidate) {
			return true
		}
	}
	return false
}
