package combo_test

import (
	"encoding/json"
	"testing"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	type testCase struct {
		name    string
		ev      combo.KeyEvent
		want    string
		wantErr bool
	}

	testCases := []testCase{
		{name: "ctrl shift m", ev: combo.KeyEvent{Key: "m", Ctrl: true, Shift: true}, want: "Ctrl+Shift+M"},
		{name: "uppercase key with shift", ev: combo.KeyEvent{Key: "M", Shift: true, Ctrl: true}, want: "Ctrl+Shift+M"},
		{name: "all modifiers canonical order", ev: combo.KeyEvent{Key: "k", Meta: true, Shift: true, Alt: true, Ctrl: true}, want: "Ctrl+Alt+Shift+Meta+K"},
		{name: "plain letter", ev: combo.KeyEvent{Key: "x"}, want: "X"},
		{name: "named key", ev: combo.KeyEvent{Key: "Delete"}, want: "Delete"},
		{name: "arrow with alt", ev: combo.KeyEvent{Key: "ArrowDown", Alt: true}, want: "Alt+Down"},
		{name: "space", ev: combo.KeyEvent{Key: " ", Ctrl: true}, want: "Ctrl+Space"},
		{name: "function key", ev: combo.KeyEvent{Key: "F12", Shift: true}, want: "Shift+F12"},
		{name: "media key", ev: combo.KeyEvent{Key: "MediaPlayPause"}, want: "MediaPlayPause"},
		{name: "browser volume", ev: combo.KeyEvent{Key: "AudioVolumeUp"}, want: "VolumeUp"},
		{name: "pause break key", ev: combo.KeyEvent{Key: "Pause", Ctrl: true}, want: "Ctrl+PauseBreak"},
		{name: "media pause key", ev: combo.KeyEvent{Key: "MediaPause"}, want: "MediaPause"},
		{name: "held modifier ignored", ev: combo.KeyEvent{Key: "c", Ctrl: true, Held: []string{"Control"}}, want: "Ctrl+C"},
		{name: "held same key ignored", ev: combo.KeyEvent{Key: "c", Held: []string{"C"}}, want: "C"},
		{name: "two terminal keys", ev: combo.KeyEvent{Key: "c", Ctrl: true, Held: []string{"v"}}, wantErr: true},
		{name: "modifier only", ev: combo.KeyEvent{Key: "Control", Ctrl: true}, wantErr: true},
		{name: "meta key alone", ev: combo.KeyEvent{Key: "Meta", Meta: true}, wantErr: true},
		{name: "empty", ev: combo.KeyEvent{}, wantErr: true},
		{name: "flags without key", ev: combo.KeyEvent{Ctrl: true}, wantErr: true},
		{name: "unknown key", ev: combo.KeyEvent{Key: "Unidentified"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := combo.Normalize(tc.ev)
			if tc.wantErr {
				assert.ErrorIs(t, err, combo.ErrInvalidCombo)
				assert.True(t, c.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.String())
		})
	}
}

func TestNormalizeModifierOrderIndependentOfPress(t *testing.T) {
	a, err := combo.Normalize(combo.KeyEvent{Key: "p", Shift: true, Ctrl: true, Held: []string{"Shift", "Control"}})
	require.NoError(t, err)
	b, err := combo.Normalize(combo.KeyEvent{Key: "p", Ctrl: true, Shift: true, Held: []string{"Control", "Shift"}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"Ctrl", "Shift", "P"}, a.Tokens())
}

func TestParse(t *testing.T) {
	type testCase struct {
		name    string
		in      string
		want    string
		wantErr bool
	}

	testCases := []testCase{
		{name: "human form", in: "Ctrl + Alt + M", want: "Ctrl+Alt+M"},
		{name: "lower case", in: "ctrl+shift+p", want: "Ctrl+Shift+P"},
		{name: "reordered modifiers", in: "Shift+Ctrl+P", want: "Ctrl+Shift+P"},
		{name: "duplicate modifier", in: "Ctrl+Ctrl+C", want: "Ctrl+C"},
		{name: "cmd alias", in: "Cmd+S", want: "Meta+S"},
		{name: "win alias", in: "win+e", want: "Meta+E"},
		{name: "plus key", in: "Ctrl++", want: "Ctrl++"},
		{name: "plus key alone", in: "+", want: "+"},
		{name: "grave", in: "Ctrl+`", want: "Ctrl+`"},
		{name: "preset del", in: "Del", want: "Delete"},
		{name: "media alias", in: "mute", want: "Mute"},
		{name: "alt up", in: "Alt+Up", want: "Alt+Up"},
		{name: "empty", in: "  ", wantErr: true},
		{name: "modifier only", in: "Ctrl+Shift", wantErr: true},
		{name: "two keys", in: "Ctrl+A+B", wantErr: true},
		{name: "unknown token", in: "Ctrl+Hyperdrive", wantErr: true},
		{name: "trailing separator", in: "Ctrl+", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := combo.Parse(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, combo.ErrInvalidCombo)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.String())
		})
	}
}

func TestParseAgreesWithNormalize(t *testing.T) {
	n, err := combo.Normalize(combo.KeyEvent{Key: "Escape", Alt: true, Meta: true})
	require.NoError(t, err)
	p, err := combo.Parse("Meta + Alt + Esc")
	require.NoError(t, err)
	assert.Equal(t, n, p)
	assert.Equal(t, n, combo.MustParse(n.String()))
}

func TestReport(t *testing.T) {
	mods, usage := combo.MustParse("Ctrl+Shift+M").Report()
	assert.Equal(t, uint8(keyboard.HIDLeftCtrl|keyboard.HIDLeftShift), mods)
	assert.Equal(t, uint8(0x10), usage)
}

func TestTextMarshalling(t *testing.T) {
	type holder struct {
		C combo.Combo `json:"c"`
	}
	b, err := json.Marshal(holder{C: combo.MustParse("alt+f4")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"Alt+F4"}`, string(b))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"c":"Ctrl + Z"}`), &h))
	assert.Equal(t, "Ctrl+Z", h.C.String())

	err = json.Unmarshal([]byte(`{"c":"Ctrl"}`), &h)
	assert.ErrorIs(t, err, combo.ErrInvalidCombo)
}

func TestPlatformLabel(t *testing.T) {
	c := combo.MustParse("Meta+Shift+M")
	assert.Equal(t, "Shift + Meta + M", combo.PlatformLabel(c, combo.PlatformLinux))
	assert.Equal(t, "Shift + Cmd + M", combo.PlatformLabel(c, combo.PlatformMacOS))
	assert.Equal(t, "Shift + Win + M", combo.PlatformLabel(c, combo.PlatformWindows))
	// stored form stays platform independent
	assert.Equal(t, "Shift+Meta+M", c.String())
	assert.Equal(t, "", combo.PlatformLabel(combo.Combo{}, combo.PlatformMacOS))
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "⏯", combo.Icon(combo.MustParse("mediaplaypause"), combo.PlatformLinux))
	assert.Equal(t, "💾", combo.Icon(combo.MustParse("ctrl+s"), combo.PlatformLinux))
	assert.Equal(t, "Ctrl + P", combo.Icon(combo.MustParse("ctrl+p"), combo.PlatformLinux))
}

func TestParsePlatform(t *testing.T) {
	assert.Equal(t, combo.PlatformMacOS, combo.ParsePlatform("macOS"))
	assert.Equal(t, combo.PlatformWindows, combo.ParsePlatform("Windows"))
	assert.Equal(t, combo.PlatformLinux, combo.ParsePlatform("linux"))
	assert.Equal(t, combo.PlatformUnknown, combo.ParsePlatform("plan9"))
	assert.Equal(t, "macOS", combo.PlatformMacOS.DisplayName())
	assert.NotEmpty(t, combo.DetectPlatform())
}
