package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pleimann/rebinder/internal/key"
)

var (
	ErrNotFound      = errors.New("mapping entry not found")
	ErrNotRemappable = errors.New("mapping entry is not remappable")
)

// Entry is one action-to-key mapping inside a context
type Entry struct {
	Action     string
	Key        key.Key
	Name       string
	Remappable bool
	// DisplayOverride replaces Name in user-facing labels when non-blank
	DisplayOverride string
}

// DisplayName returns the label shown to users. Entries that are not
// remappable have no display name.
func (e Entry) DisplayName() string {
	if !e.Remappable {
		return ""
	}
	if strings.TrimSpace(e.DisplayOverride) != "" {
		return e.DisplayOverride
	}
	return e.Name
}

// Listing describes a remappable entry at a position
type Listing struct {
	Position    int
	Action      string
	Key         key.Key
	DisplayName string
}

// View is the query and mutation surface over one live mapping context.
//
// SetKey takes effect immediately in the context's own state. The input
// system consuming the context only rebuilds its key lookup on Commit.
type View interface {
	ID() string
	Len() int
	Remappable() []Listing
	Entry(pos int) (Entry, error)
	SetKey(pos int, k key.Key) error
	Commit()
}

// Context is an ordered, in-memory list of mapping entries
type Context struct {
	id       string
	entries  []Entry
	onCommit []func(*Context)
	revision int
}

// New creates a context holding a copy of entries
func New(id string, entries ...Entry) *Context {
	c := &Context{
		id:      id,
		entries: make([]Entry, len(entries)),
	}
	copy(c.entries, entries)
	return c
}

func (c *Context) ID() string {
	return c.id
}

func (c *Context) Len() int {
	return len(c.entries)
}

// Remappable lists the remappable entries in position order
func (c *Context) Remappable() []Listing {
	var out []Listing
	for i, e := range c.entries {
		if !e.Remappable {
			continue
		}
		out = append(out, Listing{
			Position:    i,
			Action:      e.Action,
			Key:         e.Key,
			DisplayName: e.DisplayName(),
		})
	}
	return out
}

func (c *Context) Entry(pos int) (Entry, error) {
	if pos < 0 || pos >= len(c.entries) {
		return Entry{}, fmt.Errorf("%w: %s[%d]", ErrNotFound, c.id, pos)
	}
	return c.entries[pos], nil
}

func (c *Context) SetKey(pos int, k key.Key) error {
	if pos < 0 || pos >= len(c.entries) {
		return fmt.Errorf("%w: %s[%d]", ErrNotFound, c.id, pos)
	}
	if !c.entries[pos].Remappable {
		return fmt.Errorf("%w: %s[%d]", ErrNotRemappable, c.id, pos)
	}
	c.entries[pos].Key = k
	return nil
}

// Commit signals the consuming input system to rebuild from this context
func (c *Context) Commit() {
	c.revision++
	for _, fn := range c.onCommit {
		fn(c)
	}
}

// OnCommit registers a handler called on every Commit
func (c *Context) OnCommit(fn func(*Context)) {
	c.onCommit = append(c.onCommit, fn)
}

// Revision returns the number of commits so far
func (c *Context) Revision() int {
	return c.revision
}

// Entries returns a copy of every entry in position order
func (c *Context) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contexts is the live mapping configuration handed to every engine operation
type Contexts []View

// Lookup returns the first context with the given identity
func (cs Contexts) Lookup(id string) (View, bool) {
	for _, c := range cs {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}
