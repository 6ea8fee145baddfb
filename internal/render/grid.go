// Package render draws profile grids for the terminal.
package render

import (
	"strconv"
	"strings"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/keymap"
	"github.com/charmbracelet/lipgloss"
)

const cellWidth = 18

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(cellWidth).
			Align(lipgloss.Center)

	selectedCellStyle = cellStyle.
				BorderForeground(lipgloss.Color("205")).
				Bold(true)

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Options controls how a grid is drawn.
type Options struct {
	Title    string
	Platform combo.Platform
	// Selected highlights one key when set.
	Selected *keymap.Position
	// Icons prefixes labels with an icon where one is known.
	Icons bool
}

// Grid renders row-major canonical combo strings ("" for empty keys).
func Grid(rows [][]string, o Options) string {
	if o.Platform == "" {
		o.Platform = combo.DetectPlatform()
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}

	lines := make([]string, 0, len(rows)+1)
	if o.Title != "" {
		lines = append(lines, titleStyle.Render(o.Title))
	}
	for r, row := range rows {
		cells := make([]string, 0, len(row))
		for c, value := range row {
			pos := keymap.Position{Row: r, Col: c}
			style := cellStyle
			if o.Selected != nil && *o.Selected == pos {
				style = selectedCellStyle
			}
			idx := indexStyle.Render(strconv.Itoa(r*cols + c))
			cells = append(cells, style.Render(idx+"\n"+Label(value, o.Platform, o.Icons)))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Label formats a stored combo string for display. Values that do not
// parse are shown as stored.
func Label(value string, p combo.Platform, icons bool) string {
	if strings.TrimSpace(value) == "" {
		return emptyStyle.Render("unassigned")
	}
	c, err := combo.Parse(value)
	if err != nil {
		return value
	}
	label := combo.PlatformLabel(c, p)
	if icons {
		if icon := combo.Icon(c, p); icon != label {
			label = icon + " " + label
		}
	}
	return label
}
