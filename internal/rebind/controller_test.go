package rebind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/rebinder/internal/key"
	"github.com/pleimann/rebinder/internal/mapping"
)

func reconciled(t *testing.T, opts Options, contexts ...*mapping.Context) (*Store, *Controller, mapping.Contexts) {
	t.Helper()
	store, engine, ctrl := newSession(opts)
	live := make(mapping.Contexts, len(contexts))
	for i, c := range contexts {
		live[i] = c
	}
	_, err := engine.Reconcile(live)
	require.NoError(t, err)
	return store, ctrl, live
}

func TestJumpScenario(t *testing.T) {
	c := jumpContext()
	store, engine, ctrl := newSession(Options{})
	live := mapping.Contexts{c}

	_, err := engine.Reconcile(live)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	pack := store.Packs()[0]
	require.NoError(t, ctrl.Remap(live, &pack, "e"))

	assert.Equal(t, key.Key("e"), liveKey(t, c, 0))
	assert.Equal(t, key.Key("e"), pack.CustomKey)
	assert.Equal(t, key.Key("e"), store.Packs()[0].CustomKey)

	_, err = engine.Reconcile(live)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	assert.Equal(t, key.Key("e"), store.Packs()[0].CustomKey)

	require.NoError(t, ctrl.RestoreDefault(live, &pack))
	assert.Equal(t, key.Key("space"), pack.CustomKey)
	assert.Equal(t, key.Key("space"), store.Packs()[0].CustomKey)
	assert.Equal(t, key.Key("space"), liveKey(t, c, 0))
}

func TestRemapRoundTrip(t *testing.T) {
	store, ctrl, live := reconciled(t, Options{}, onFootContext())

	p, ok := store.At(1)
	require.True(t, ok)

	for _, k := range []key.Key{"x", "mouse_x1", "f5", "gamepad_dpad_up"} {
		require.NoError(t, ctrl.Remap(live, p, k))

		name, got, err := ctrl.Unpack(*p)
		require.NoError(t, err)
		assert.Equal(t, p.DisplayName, name)
		assert.Equal(t, k, got)
		assert.True(t, ctrl.HasCustomKey(*p))
	}

	require.NoError(t, ctrl.RestoreDefault(live, p))
	assert.Equal(t, p.DefaultKey, p.CustomKey)
	assert.False(t, ctrl.HasCustomKey(*p))
}

func TestRemapCallerCopyMissingFromStore(t *testing.T) {
	store, ctrl, live := reconciled(t, Options{}, jumpContext())

	// A stale handle no longer equal to any stored pack still applies
	handle := store.Packs()[0]
	handle.CustomKey = "q"

	require.NoError(t, ctrl.Remap(live, &handle, "e"))
	assert.Equal(t, key.Key("e"), handle.CustomKey)
	assert.Equal(t, key.Key("space"), store.Packs()[0].CustomKey)
	assert.Equal(t, key.Key("e"), liveKey(t, live[0], 0))
}

func TestRemapCommitsContext(t *testing.T) {
	c := jumpContext()
	commits := 0
	c.OnCommit(func(*mapping.Context) { commits++ })

	store, ctrl, live := reconciled(t, Options{}, c)
	p, _ := store.At(0)

	require.NoError(t, ctrl.Remap(live, p, "e"))
	assert.Equal(t, 1, commits)
}

func TestRemapErrors(t *testing.T) {
	store, ctrl, live := reconciled(t, Options{}, onFootContext())
	valid := store.Packs()[0]

	tests := []struct {
		name    string
		pack    Pack
		key     key.Key
		wantErr error
	}{
		{
			name:    "invalid key",
			pack:    valid,
			key:     "hyper",
			wantErr: key.ErrUnknownKey,
		},
		{
			name:    "empty key",
			pack:    valid,
			key:     key.None,
			wantErr: key.ErrUnknownKey,
		},
		{
			name:    "unknown context",
			pack:    Pack{ContextID: "Gone", ActionID: "IA_Jump", DefaultKey: "space", CustomKey: "space", DisplayName: "Jump"},
			key:     "e",
			wantErr: mapping.ErrNotFound,
		},
		{
			name:    "position out of range",
			pack:    Pack{ContextID: "OnFoot", ActionID: "IA_Jump", DefaultKey: "space", CustomKey: "space", DisplayName: "Jump", Position: 42},
			key:     "e",
			wantErr: mapping.ErrNotFound,
		},
		{
			name:    "not remappable",
			pack:    Pack{ContextID: "OnFoot", ActionID: "IA_Look", DefaultKey: "mouse_right", CustomKey: "mouse_right", DisplayName: "Look", Position: 1},
			key:     "e",
			wantErr: mapping.ErrNotRemappable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pack
			err := ctrl.Remap(live, &p, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.pack.CustomKey, p.CustomKey, "pack changed on failed remap")
		})
	}

	assert.Equal(t, valid, store.Packs()[0])
}

func TestRemapSaves(t *testing.T) {
	p := &memoryPersister{}
	store, ctrl, live := reconciled(t, Options{PersistAcrossSessions: true, Persister: p}, jumpContext())
	saves := p.saves

	pack, _ := store.At(0)
	require.NoError(t, ctrl.Remap(live, pack, "e"))

	assert.Equal(t, saves+1, p.saves)
	assert.Equal(t, key.Key("e"), p.packs[0].CustomKey)
}

func TestRestoreAll(t *testing.T) {
	c := onFootContext()
	store, ctrl, live := reconciled(t, Options{}, c)

	for i, k := range []key.Key{"z", "x"} {
		p, _ := store.At(i)
		require.NoError(t, ctrl.Remap(live, p, k))
	}

	require.NoError(t, ctrl.RestoreAll(live))

	for _, p := range store.Packs() {
		assert.False(t, p.HasCustomKey(), "pack %s", p)
		assert.Equal(t, p.DefaultKey, liveKey(t, c, p.Position))
	}
}

func TestUnpackCorrupted(t *testing.T) {
	ctrl := NewController(NewStore(), Options{})

	tests := []struct {
		name string
		pack Pack
	}{
		{
			name: "blank display name",
			pack: Pack{ContextID: "C", ActionID: "Jump", DefaultKey: "space", CustomKey: "space", DisplayName: "  "},
		},
		{
			name: "invalid custom key",
			pack: Pack{ContextID: "C", ActionID: "Jump", DefaultKey: "space", CustomKey: "", DisplayName: "Jump"},
		},
		{
			name: "negative position",
			pack: Pack{ContextID: "C", ActionID: "Jump", DefaultKey: "space", CustomKey: "space", DisplayName: "Jump", Position: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ctrl.Unpack(tt.pack)
			assert.ErrorIs(t, err, ErrInvariant)
		})
	}
}

func TestPacksForMode(t *testing.T) {
	store, ctrl, _ := reconciled(t, Options{}, onFootContext())

	// Every pack lands in exactly the mode its custom key classifies as
	for _, m := range key.Modes() {
		packs, err := ctrl.PacksForMode(m.String())
		if m == key.Gesture {
			assert.ErrorIs(t, err, ErrNoPacksForMode)
			continue
		}
		require.NoError(t, err, "mode %s", m)
		for _, p := range packs {
			assert.Equal(t, m, key.Classify(p.CustomKey))
		}
	}

	kbm, err := ctrl.PacksForMode("keyboardandmouse")
	require.NoError(t, err)
	assert.Len(t, kbm, 2)

	vr, err := ctrl.PacksForMode("Touch")
	require.NoError(t, err)
	require.Len(t, vr, 1)
	assert.Equal(t, "Tap", vr[0].DisplayName)

	_, err = ctrl.PacksForMode("joystick")
	assert.ErrorIs(t, err, key.ErrUnknownMode)

	store.Clear()
	_, err = ctrl.PacksForMode("Gamepad")
	assert.ErrorIs(t, err, ErrNoPacks)
}

func TestPacksForModeCustomClassifier(t *testing.T) {
	everythingIsGesture := func(key.Key) key.Mode { return key.Gesture }
	_, ctrl, _ := reconciled(t, Options{Classifier: everythingIsGesture}, onFootContext())

	packs, err := ctrl.PacksForMode("VR")
	require.NoError(t, err)
	assert.Len(t, packs, 4)
}

func TestRemapZeroPaddedKeyIsSameKey(t *testing.T) {
	c := mapping.New("Menu", mapping.Entry{Action: "IA_Save", Key: "f1", Name: "Save", Remappable: true})
	store, ctrl, live := reconciled(t, Options{}, c)

	p, ok := store.At(0)
	require.True(t, ok)

	k, err := key.Parse("F01")
	require.NoError(t, err)
	require.NoError(t, ctrl.Remap(live, p, k))

	assert.Equal(t, key.Key("f1"), p.CustomKey)
	assert.False(t, ctrl.HasCustomKey(*p))
	assert.True(t, p.Equal(newPackFor(t, c, 0)))

	assert.ErrorIs(t, ctrl.Remap(live, p, "f01"), key.ErrUnknownKey)
}

func newPackFor(t *testing.T, c *mapping.Context, pos int) Pack {
	t.Helper()
	for _, l := range c.Remappable() {
		if l.Position == pos {
			p, err := newPack(c.ID(), l)
			require.NoError(t, err)
			return p
		}
	}
	t.Fatalf("no remappable entry at %d", pos)
	return Pack{}
}
