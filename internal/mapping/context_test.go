package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pleimann/rebinder/internal/key"
)

func testContext() *Context {
	return New("Default",
		Entry{Action: "IA_Jump", Key: "space", Name: "Jump", Remappable: true},
		Entry{Action: "IA_Look", Key: "mouse_right", Name: "Look"},
		Entry{Action: "IA_Crouch", Key: "c", Name: "Crouch", Remappable: true, DisplayOverride: "Duck"},
		Entry{Action: "IA_Fire", Key: "mouse_left", Name: "Fire", Remappable: true, DisplayOverride: "   "},
	)
}

func TestEntryDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "mapping name",
			entry: Entry{Name: "Jump", Remappable: true},
			want:  "Jump",
		},
		{
			name:  "override wins",
			entry: Entry{Name: "Crouch", Remappable: true, DisplayOverride: "Duck"},
			want:  "Duck",
		},
		{
			name:  "blank override ignored",
			entry: Entry{Name: "Fire", Remappable: true, DisplayOverride: " \t"},
			want:  "Fire",
		},
		{
			name:  "not remappable",
			entry: Entry{Name: "Look", DisplayOverride: "Look Around"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextRemappable(t *testing.T) {
	c := testContext()

	want := []Listing{
		{Position: 0, Action: "IA_Jump", Key: "space", DisplayName: "Jump"},
		{Position: 2, Action: "IA_Crouch", Key: "c", DisplayName: "Duck"},
		{Position: 3, Action: "IA_Fire", Key: "mouse_left", DisplayName: "Fire"},
	}

	if got := c.Remappable(); !reflect.DeepEqual(got, want) {
		t.Errorf("Remappable() = %+v, want %+v", got, want)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
}

func TestContextRemappableEmpty(t *testing.T) {
	c := New("Menu", Entry{Action: "IA_Back", Key: "escape", Name: "Back"})
	if got := c.Remappable(); len(got) != 0 {
		t.Errorf("Remappable() = %v, want empty", got)
	}
}

func TestContextEntry(t *testing.T) {
	c := testContext()

	e, err := c.Entry(2)
	if err != nil {
		t.Fatalf("Entry(2) error = %v", err)
	}
	if e.Action != "IA_Crouch" {
		t.Errorf("Entry(2).Action = %q, want IA_Crouch", e.Action)
	}

	for _, pos := range []int{-1, 4, 100} {
		if _, err := c.Entry(pos); !errors.Is(err, ErrNotFound) {
			t.Errorf("Entry(%d) error = %v, want ErrNotFound", pos, err)
		}
	}
}

func TestContextSetKey(t *testing.T) {
	c := testContext()

	if err := c.SetKey(0, "e"); err != nil {
		t.Fatalf("SetKey(0) error = %v", err)
	}
	e, _ := c.Entry(0)
	if e.Key != "e" {
		t.Errorf("Entry(0).Key = %q, want e", e.Key)
	}

	if err := c.SetKey(1, "e"); !errors.Is(err, ErrNotRemappable) {
		t.Errorf("SetKey(1) error = %v, want ErrNotRemappable", err)
	}
	if err := c.SetKey(9, "e"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetKey(9) error = %v, want ErrNotFound", err)
	}
}

func TestContextCommit(t *testing.T) {
	c := testContext()

	var seen []string
	c.OnCommit(func(ctx *Context) {
		seen = append(seen, ctx.ID())
	})

	c.Commit()
	c.Commit()

	if c.Revision() != 2 {
		t.Errorf("Revision() = %d, want 2", c.Revision())
	}
	if !reflect.DeepEqual(seen, []string{"Default", "Default"}) {
		t.Errorf("commit handlers saw %v", seen)
	}
}

func TestNewCopiesEntries(t *testing.T) {
	entries := []Entry{{Action: "IA_Jump", Key: "space", Name: "Jump", Remappable: true}}
	c := New("Default", entries...)
	entries[0].Key = "e"

	if e, _ := c.Entry(0); e.Key != "space" {
		t.Errorf("context aliases caller slice: key = %q", e.Key)
	}
}

func TestContextsLookup(t *testing.T) {
	first := New("Default")
	second := New("Vehicle")
	dup := New("Default")
	cs := Contexts{first, second, dup}

	got, ok := cs.Lookup("Default")
	if !ok || got != View(first) {
		t.Errorf("Lookup(Default) = %v, %v; want first context", got, ok)
	}
	if _, ok := cs.Lookup("Swim"); ok {
		t.Error("Lookup(Swim) found a context")
	}
}

func TestLoad(t *testing.T) {
	content := `
id: OnFoot
mappings:
  - action: IA_Jump
    key: Space
    remappable: true
  - action: IA_Look
    key: mouse_xy_2d
  - action: IA_Crouch
    key: c
    name: CrouchMapping
    remappable: true
    display_name: Crouch
`
	path := filepath.Join(t.TempDir(), "on_foot.imc.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write context file: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.ID() != "OnFoot" {
		t.Errorf("ID() = %q, want OnFoot", c.ID())
	}

	want := []Listing{
		{Position: 0, Action: "IA_Jump", Key: key.MustParse("space"), DisplayName: "IA_Jump"},
		{Position: 2, Action: "IA_Crouch", Key: "c", DisplayName: "Crouch"},
	}
	if got := c.Remappable(); !reflect.DeepEqual(got, want) {
		t.Errorf("Remappable() = %+v, want %+v", got, want)
	}
}

func TestLoadDefaultID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicle.imc.yaml")
	content := "mappings:\n  - action: IA_Horn\n    key: h\n    remappable: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write context file: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.ID() != "vehicle" {
		t.Errorf("ID() = %q, want vehicle", c.ID())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing action",
			content: "id: A\nmappings:\n  - key: a\n    remappable: true\n",
		},
		{
			name:    "invalid remappable key",
			content: "id: A\nmappings:\n  - action: IA_Jump\n    key: ctrl+space\n    remappable: true\n",
		},
		{
			name:    "missing remappable key",
			content: "id: A\nmappings:\n  - action: IA_Jump\n    remappable: true\n",
		},
		{
			name:    "missing id",
			content: "mappings: []\n",
		},
		{
			name:    "malformed yaml",
			content: "id: [unterminated\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.content), ""); err == nil {
				t.Error("Parse() expected error, got nil")
			}
		})
	}
}
