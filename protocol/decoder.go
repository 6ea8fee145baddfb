package protocol

import (
	"strconv"
	"strings"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/keymap"
)

// ResponseKind classifies a line received from the device.
type ResponseKind string

const (
	ResponseAck         ResponseKind = "ack"
	ResponseError       ResponseKind = "error"
	ResponseKeyPress    ResponseKind = "keypress"
	ResponseStatus      ResponseKind = "status"
	ResponseMappingDump ResponseKind = "mapping"
	ResponseOpaque      ResponseKind = "opaque"
)

// Response is a decoded device line.
type Response struct {
	Kind ResponseKind `json:"kind"`
	// Index is the flat key index of a keypress.
	Index int `json:"index,omitempty"`
	// Text is the status, error detail or opaque line.
	Text string `json:"text,omitempty"`
	// Grid holds the rows of a mapping dump.
	Grid [][]string `json:"grid,omitempty"`
	// Raw is the line as received, without its terminator.
	Raw string `json:"raw"`
}

// Decoder decodes device lines for one grid layout.
type Decoder struct {
	grid keymap.Grid
}

// NewDecoder returns a decoder for grid.
func NewDecoder(grid keymap.Grid) *Decoder {
	return &Decoder{grid: grid}
}

// DecodeResponse classifies one line. Unknown input is never an error; it
// is passed through as ResponseOpaque.
func (d *Decoder) DecodeResponse(line string) Response {
	raw := strings.TrimRight(line, "\r\n")
	s := strings.TrimSpace(raw)
	res := Response{Kind: ResponseOpaque, Text: s, Raw: raw}

	upper := strings.ToUpper(s)
	switch {
	case upper == "OK" || upper == "CONFIGURED":
		res.Kind = ResponseAck
		res.Text = upper
	case upper == "ERROR" || upper == "ERR":
		res.Kind = ResponseError
		res.Text = ""
	case strings.HasPrefix(upper, "ERROR:") || strings.HasPrefix(upper, "ERROR "):
		res.Kind = ResponseError
		res.Text = strings.TrimSpace(s[len("ERROR:"):])
	case strings.HasPrefix(upper, "ERR:") || strings.HasPrefix(upper, "ERR "):
		res.Kind = ResponseError
		res.Text = strings.TrimSpace(s[len("ERR:"):])
	case strings.HasPrefix(s, "KEYPRESS:"):
		idx, err := strconv.Atoi(strings.TrimSpace(s[len("KEYPRESS:"):]))
		if err == nil && idx >= 0 && idx < d.grid.Size() {
			res.Kind = ResponseKeyPress
			res.Index = idx
			res.Text = ""
		}
	case strings.HasPrefix(s, "STATUS:"):
		res.Kind = ResponseStatus
		res.Text = strings.TrimSpace(s[len("STATUS:"):])
	default:
		if grid, ok := d.parseDump(s); ok {
			res.Kind = ResponseMappingDump
			res.Grid = grid
			res.Text = ""
		}
	}
	return res
}

// parseDump reads a GET_MAPPING reply: rows separated by '|', cells by ','.
// The shape must match the grid exactly and every non-empty cell must be a
// valid combo; anything else is not a dump.
func (d *Decoder) parseDump(s string) ([][]string, bool) {
	if s == "" {
		return nil, false
	}
	if d.grid.Rows > 1 && !strings.Contains(s, "|") {
		return nil, false
	}
	if d.grid.Cols > 1 && !strings.Contains(s, ",") {
		return nil, false
	}
	rows := strings.Split(s, "|")
	if len(rows) != d.grid.Rows {
		return nil, false
	}
	out := make([][]string, len(rows))
	for r, row := range rows {
		cells := strings.Split(row, ",")
		if len(cells) != d.grid.Cols {
			return nil, false
		}
		for c := range cells {
			cells[c] = strings.TrimSpace(cells[c])
			if cells[c] != "" {
				if _, err := combo.Parse(cells[c]); err != nil {
					return nil, false
				}
			}
		}
		out[r] = cells
	}
	return out, true
}

// Position returns the grid position of a keypress response.
func (r Response) Position(grid keymap.Grid) (keymap.Position, error) {
	return grid.At(r.Index)
}
