package render_test

import (
	"strings"
	"testing"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/internal/render"
	"github.com/Alia5/micropad/keymap"
	"github.com/stretchr/testify/assert"
)

func TestGrid(t *testing.T) {
	rows := [][]string{{"Ctrl+C", "", ""}, {"", "Shift+Meta+M", ""}, {"", "", "MediaPlayPause"}}
	sel := keymap.Position{Row: 1, Col: 1}
	out := render.Grid(rows, render.Options{Title: "profile1", Platform: combo.PlatformMacOS, Selected: &sel, Icons: true})

	assert.Contains(t, out, "profile1")
	assert.Contains(t, out, "Ctrl + C")
	assert.Contains(t, out, "Shift + Cmd + M")
	assert.Contains(t, out, "⏯ MediaPlayPause")
	assert.Contains(t, out, "unassigned")
	assert.Contains(t, out, "╭")
	for _, idx := range []string{"0", "4", "8"} {
		assert.Contains(t, out, idx)
	}
	// title line plus three rows of bordered cells
	assert.GreaterOrEqual(t, len(strings.Split(out, "\n")), 1+3*4)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Alt + Win + F4", render.Label("Alt+Meta+F4", combo.PlatformWindows, false))
	assert.Equal(t, "💾 Ctrl + S", render.Label("Ctrl+S", combo.PlatformLinux, true))
	assert.Equal(t, "Ctrl + P", render.Label("Ctrl+P", combo.PlatformLinux, true))
	assert.Equal(t, "???", render.Label("???", combo.PlatformLinux, false))
	assert.Contains(t, render.Label("", combo.PlatformLinux, false), "unassigned")
}

func TestTable(t *testing.T) {
	out := render.Table([]string{"PORT", "VID"}, [][]string{{"/dev/ttyACM0", "2E8A"}, {"COM3", ""}})
	assert.Contains(t, out, "PORT")
	assert.Contains(t, out, "/dev/ttyACM0")
	assert.Contains(t, out, "2E8A")
	assert.Contains(t, out, "COM3")
	assert.Contains(t, out, "╭")
}
