package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/rebind"
)

var packs = []rebind.Pack{
	{ContextID: "Vehicle", ActionID: "IA_Horn", DefaultKey: "h", CustomKey: "h", DisplayName: "Horn", Position: 1},
	{ContextID: "OnFoot", ActionID: "IA_Tap", DefaultKey: "touch1", CustomKey: "touch1", DisplayName: "Tap", Position: 4},
	{ContextID: "OnFoot", ActionID: "IA_Jump", DefaultKey: "space", CustomKey: "gamepad_face_bottom", DisplayName: "Jump", Position: 0},
}

func TestBindings(t *testing.T) {
	got := Bindings(packs, nil)
	require.Len(t, got, 3)

	assert.Equal(t, Binding{
		Context: "OnFoot", Action: "IA_Jump", Name: "Jump", Position: 0,
		Key: "gamepad_face_bottom", Default: "space", Mode: "Gamepad", Custom: true,
	}, got[0])
	assert.Equal(t, "Touch", got[1].Mode)
	assert.False(t, got[1].Custom)
	assert.Equal(t, "Vehicle", got[2].Context)
	assert.Equal(t, "KeyboardAndMouse", got[2].Mode)
}

func TestBindingsCustomClassifier(t *testing.T) {
	everythingGamepad := func(key.Key) key.Mode { return key.Gamepad }

	for _, b := range Bindings(packs, everythingGamepad) {
		assert.Equal(t, "Gamepad", b.Mode)
	}
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, Bindings(packs, nil)))

	assert.Equal(t, 3, strings.Count(buf.String(), "[[binding]]"))

	var doc Document
	_, err := toml.Decode(buf.String(), &doc)
	require.NoError(t, err)
	assert.Equal(t, Bindings(packs, nil), doc.Bindings)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, Bindings(packs, nil)))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, Bindings(packs, nil), doc.Bindings)
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "ini", nil)
	assert.ErrorContains(t, err, "unknown export format")
}
