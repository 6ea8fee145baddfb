// Package protocol implements the Micropad serial line protocol.
//
// Every command is one ASCII line terminated by '\n':
//
//	SETUP:<index>:<combo>     assign one key (index dialect)
//	SET <row>,<col>,<combo>   assign one key (row/col dialect)
//	SETUP:<json rows>         replace the whole grid
//	SAVE                      commit RAM mapping to non-volatile storage
//	GET_MAPPING               ask the device for its current mapping
//	EXECUTE,<row>,<col>       make the device fire the stored combo
//
// Device lines are decoded by Decoder.
package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/keymap"
)

// Kind identifies a command.
type Kind string

const (
	KindAssign  Kind = "assign"
	KindBulk    Kind = "bulk"
	KindSave    Kind = "save"
	KindQuery   Kind = "query"
	KindExecute Kind = "execute"
)

// Command is a single protocol line, without its terminator.
type Command struct {
	Kind Kind
	Line string
}

// Bytes returns the newline-terminated wire form.
func (c Command) Bytes() []byte { return []byte(c.Line + "\n") }

func (c Command) String() string { return c.Line }

// Dialect selects the single-key assignment form.
type Dialect string

const (
	// DialectIndex sends SETUP:<index>:<combo>.
	DialectIndex Dialect = "index"
	// DialectRowCol sends SET <row>,<col>,<combo>.
	DialectRowCol Dialect = "rowcol"
)

// Encoder builds commands for one grid layout.
type Encoder struct {
	grid    keymap.Grid
	dialect Dialect
}

// NewEncoder returns an encoder. An empty dialect defaults to DialectIndex.
func NewEncoder(grid keymap.Grid, dialect Dialect) *Encoder {
	if dialect == "" {
		dialect = DialectIndex
	}
	return &Encoder{grid: grid, dialect: dialect}
}

// Dialect returns the assignment dialect in use.
func (e *Encoder) Dialect() Dialect { return e.dialect }

// EncodeAssign encodes the assignment of c to pos.
func (e *Encoder) EncodeAssign(pos keymap.Position, c combo.Combo) (Command, error) {
	if !e.grid.Contains(pos) {
		return Command{}, fmt.Errorf("%w: position %s", keymap.ErrOutOfRange, pos)
	}
	if c.IsZero() {
		return Command{}, fmt.Errorf("%w: nothing to encode", combo.ErrInvalidCombo)
	}
	wire := wireCombo(c)
	switch e.dialect {
	case DialectRowCol:
		return Command{Kind: KindAssign, Line: fmt.Sprintf("SET %d,%d,%s", pos.Row, pos.Col, wire)}, nil
	default:
		return Command{Kind: KindAssign, Line: "SETUP:" + strconv.Itoa(e.grid.Index(pos)) + ":" + wire}, nil
	}
}

// EncodeFullProfile encodes one assignment per occupied position in
// row-major order. The device applies commands in arrival order, so the
// order is stable for identical profiles.
func (e *Encoder) EncodeFullProfile(p keymap.Profile) ([]Command, error) {
	positions := p.Positions()
	out := make([]Command, 0, len(positions))
	for _, pos := range positions {
		cmd, err := e.EncodeAssign(pos, p[pos])
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

// EncodeBulk encodes a full-grid replace from row-major canonical strings
// ("" for unassigned keys).
func (e *Encoder) EncodeBulk(rows [][]string) (Command, error) {
	if len(rows) != e.grid.Rows {
		return Command{}, fmt.Errorf("%w: %d rows for %d row grid", keymap.ErrOutOfRange, len(rows), e.grid.Rows)
	}
	clean := make([][]string, len(rows))
	for r, row := range rows {
		if len(row) != e.grid.Cols {
			return Command{}, fmt.Errorf("%w: row %d has %d columns, want %d", keymap.ErrOutOfRange, r, len(row), e.grid.Cols)
		}
		clean[r] = make([]string, len(row))
		for c, s := range row {
			clean[r][c] = stripSpaces(s)
		}
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: KindBulk, Line: "SETUP:" + string(b)}, nil
}

// EncodeSave encodes the persist command.
func (e *Encoder) EncodeSave() Command { return Command{Kind: KindSave, Line: "SAVE"} }

// EncodeQuery encodes the mapping query.
func (e *Encoder) EncodeQuery() Command { return Command{Kind: KindQuery, Line: "GET_MAPPING"} }

// EncodeExecute asks the device to fire the combo stored at pos.
func (e *Encoder) EncodeExecute(pos keymap.Position) (Command, error) {
	if !e.grid.Contains(pos) {
		return Command{}, fmt.Errorf("%w: position %s", keymap.ErrOutOfRange, pos)
	}
	return Command{Kind: KindExecute, Line: fmt.Sprintf("EXECUTE,%d,%d", pos.Row, pos.Col)}, nil
}

func wireCombo(c combo.Combo) string {
	return stripSpaces(strings.Join(c.Tokens(), "+"))
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
