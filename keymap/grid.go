package keymap

import (
	"fmt"
	"strconv"
	"strings"
)

// Grid is the fixed key layout of a pad.
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DefaultGrid is the 3x3 Micropad layout.
var DefaultGrid = Grid{Rows: 3, Cols: 3}

// Size returns the number of keys.
func (g Grid) Size() int { return g.Rows * g.Cols }

// Contains reports whether p lies inside the grid.
func (g Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// Index returns the row-major flat index of p.
func (g Grid) Index(p Position) int { return p.Row*g.Cols + p.Col }

// At returns the position for a flat index.
func (g Grid) At(index int) (Position, error) {
	if g.Cols <= 0 || index < 0 || index >= g.Size() {
		return Position{}, fmt.Errorf("%w: index %d outside %dx%d grid", ErrOutOfRange, index, g.Rows, g.Cols)
	}
	return Position{Row: index / g.Cols, Col: index % g.Cols}, nil
}

// Positions returns every position in row-major order.
func (g Grid) Positions() []Position {
	out := make([]Position, 0, g.Size())
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			out = append(out, Position{Row: r, Col: c})
		}
	}
	return out
}

// ParsePosition reads "row,col" or a flat index "n" and checks it against
// the grid.
func (g Grid) ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if row, col, ok := strings.Cut(s, ","); ok {
		r, err := strconv.Atoi(strings.TrimSpace(row))
		if err != nil {
			return Position{}, fmt.Errorf("invalid row %q: %w", row, err)
		}
		c, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil {
			return Position{}, fmt.Errorf("invalid column %q: %w", col, err)
		}
		p := Position{Row: r, Col: c}
		if !g.Contains(p) {
			return Position{}, fmt.Errorf("%w: %s outside %dx%d grid", ErrOutOfRange, p, g.Rows, g.Cols)
		}
		return p, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Position{}, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return g.At(n)
}

// Position addresses one key.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Row) + "," + strconv.Itoa(p.Col)
}

// Less orders positions row-major.
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}
