// Package termkeys turns raw terminal input into key events so shortcuts can
// be captured from a terminal in raw mode.
//
// A terminal only reports what it can encode: Ctrl with letters, Alt as an
// ESC prefix, and xterm modifier parameters on cursor, navigation and
// function keys. Meta is only seen through CSI modifier parameters.
package termkeys

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Alia5/micropad/combo"
)

const esc = 0x1b

// plain escape sequences without modifier parameters
var escBindings = map[string]string{
	"\x1b[A":   "Up",
	"\x1b[B":   "Down",
	"\x1b[C":   "Right",
	"\x1b[D":   "Left",
	"\x1bOA":   "Up",
	"\x1bOB":   "Down",
	"\x1bOC":   "Right",
	"\x1bOD":   "Left",
	"\x1b[H":   "Home",
	"\x1b[F":   "End",
	"\x1bOH":   "Home",
	"\x1bOF":   "End",
	"\x1bOP":   "F1",
	"\x1bOQ":   "F2",
	"\x1bOR":   "F3",
	"\x1bOS":   "F4",
	"\x1b[[A":  "F1",
	"\x1b[[B":  "F2",
	"\x1b[[C":  "F3",
	"\x1b[[D":  "F4",
	"\x1b[[E":  "F5",
	"\x1b[2~":  "Insert",
	"\x1b[3~":  "Delete",
	"\x1b[5~":  "PageUp",
	"\x1b[6~":  "PageDown",
	"\x1b[1~":  "Home",
	"\x1b[4~":  "End",
	"\x1b[7~":  "Home",
	"\x1b[8~":  "End",
	"\x1b[15~": "F5",
}

// CSI final bytes that name a key on their own
var csiFinal = map[byte]string{
	'A': "Up",
	'B': "Down",
	'C': "Right",
	'D': "Left",
	'H': "Home",
	'F': "End",
	'P': "F1",
	'Q': "F2",
	'R': "F3",
	'S': "F4",
}

// numbers used by ESC [ <n> ~
var tildeKeys = map[int]string{
	1:  "Home",
	2:  "Insert",
	3:  "Delete",
	4:  "End",
	5:  "PageUp",
	6:  "PageDown",
	7:  "Home",
	8:  "End",
	11: "F1",
	12: "F2",
	13: "F3",
	14: "F4",
	15: "F5",
	17: "F6",
	18: "F7",
	19: "F8",
	20: "F9",
	21: "F10",
	23: "F11",
	24: "F12",
	25: "F13",
	26: "F14",
	28: "F15",
	29: "F16",
	31: "F17",
	32: "F18",
	33: "F19",
	34: "F20",
}

// single control bytes
var controlKeys = map[byte]combo.KeyEvent{
	0:    {Key: "Space", Ctrl: true},
	8:    {Key: "Backspace"},
	9:    {Key: "Tab"},
	10:   {Key: "J", Ctrl: true},
	13:   {Key: "Enter"},
	esc:  {Key: "Escape"},
	28:   {Key: "\\", Ctrl: true},
	29:   {Key: "]", Ctrl: true},
	31:   {Key: "/", Ctrl: true},
	0x7f: {Key: "Backspace"},
}

// Decode splits one read from a raw terminal into key events. Each read is
// assumed to hold whole sequences, which holds for interactive typing; a
// lone ESC is the Escape key. Unknown sequences are dropped.
func Decode(b []byte) []combo.KeyEvent {
	var out []combo.KeyEvent
	for len(b) > 0 {
		ev, n, ok := decodeOne(b)
		if n <= 0 {
			n = 1
		}
		if ok {
			out = append(out, ev)
		}
		b = b[n:]
	}
	return out
}

func decodeOne(b []byte) (combo.KeyEvent, int, bool) {
	c := b[0]
	if c == esc {
		if len(b) == 1 {
			return combo.KeyEvent{Key: "Escape"}, 1, true
		}
		return decodeEscape(b)
	}
	if c < 0x20 || c == 0x7f {
		return decodeControl(c)
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return combo.KeyEvent{}, size, false
	}
	return printable(r), size, true
}

func decodeControl(c byte) (combo.KeyEvent, int, bool) {
	if ev, ok := controlKeys[c]; ok {
		return ev, 1, true
	}
	if c >= 1 && c <= 26 {
		return combo.KeyEvent{Key: string(rune('A' + c - 1)), Ctrl: true}, 1, true
	}
	return combo.KeyEvent{}, 1, false
}

func printable(r rune) combo.KeyEvent {
	if r == ' ' {
		return combo.KeyEvent{Key: "Space"}
	}
	if unicode.IsUpper(r) {
		return combo.KeyEvent{Key: string(r), Shift: true}
	}
	return combo.KeyEvent{Key: string(r)}
}

func decodeEscape(b []byte) (combo.KeyEvent, int, bool) {
	switch b[1] {
	case '[':
		return decodeCSI(b)
	case 'O':
		if len(b) >= 3 {
			if key, ok := escBindings[string(b[:3])]; ok {
				return combo.KeyEvent{Key: key}, 3, true
			}
			// ESC O <mod> <final> from some terminals
			if len(b) >= 4 && b[2] >= '2' && b[2] <= '9' {
				if key, ok := csiFinal[b[3]]; ok {
					return withModifier(combo.KeyEvent{Key: key}, int(b[2]-'0')), 4, true
				}
			}
		}
		return combo.KeyEvent{Key: "O", Alt: true, Shift: true}, 2, true
	case esc:
		// ESC ESC [ A is Option+arrow on macOS terminals
		if len(b) < 3 {
			return combo.KeyEvent{Key: "Escape", Alt: true}, 2, true
		}
		if ev, n, ok := decodeEscape(b[1:]); ok {
			ev.Alt = true
			return ev, n + 1, true
		}
		return combo.KeyEvent{Key: "Escape", Alt: true}, 2, true
	}

	// ESC prefix means Alt on the following key
	ev, n, ok := decodeOne(b[1:])
	if !ok {
		return combo.KeyEvent{Key: "Escape"}, 1, true
	}
	ev.Alt = true
	return ev, n + 1, true
}

// decodeCSI handles ESC [ <params> <final>.
func decodeCSI(b []byte) (combo.KeyEvent, int, bool) {
	end := 2
	for end < len(b) && (b[end] < 0x40 || b[end] > 0x7e) {
		end++
	}
	if end >= len(b) {
		return combo.KeyEvent{}, len(b), false
	}
	// ESC [ [ A style function keys (linux console)
	if b[2] == '[' && end == 2 && len(b) >= 4 {
		if key, ok := escBindings[string(b[:4])]; ok {
			return combo.KeyEvent{Key: key}, 4, true
		}
		return combo.KeyEvent{}, 4, false
	}
	n := end + 1
	seq := string(b[:n])
	if seq == "\x1b[Z" {
		return combo.KeyEvent{Key: "Tab", Shift: true}, n, true
	}
	if key, ok := escBindings[seq]; ok {
		return combo.KeyEvent{Key: key}, n, true
	}

	final := b[end]
	parts := strings.Split(string(b[2:end]), ";")
	mod := 1
	if len(parts) >= 2 {
		mod = modifierParam(parts[1])
	}

	switch final {
	case '~':
		num, err := strconv.Atoi(parts[0])
		if err != nil {
			return combo.KeyEvent{}, n, false
		}
		key, ok := tildeKeys[num]
		if !ok {
			return combo.KeyEvent{}, n, false
		}
		return withModifier(combo.KeyEvent{Key: key}, mod), n, true
	case 'u':
		// kitty / fixterms: ESC [ <codepoint> ; <mod> u
		code, err := strconv.Atoi(parts[0])
		if err != nil || code <= 0 {
			return combo.KeyEvent{}, n, false
		}
		var ev combo.KeyEvent
		if c, ok := controlKeys[byte(code)]; ok && code < 0x80 {
			ev = combo.KeyEvent{Key: c.Key}
		} else {
			ev = combo.KeyEvent{Key: strings.ToUpper(string(rune(code)))}
		}
		return withModifier(ev, mod), n, true
	}
	if key, ok := csiFinal[final]; ok {
		return withModifier(combo.KeyEvent{Key: key}, mod), n, true
	}
	return combo.KeyEvent{}, n, false
}

// modifierParam parses an xterm modifier parameter; 1 means none.
func modifierParam(s string) int {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 {
		return 1
	}
	return m
}

func withModifier(ev combo.KeyEvent, mod int) combo.KeyEvent {
	bits := mod - 1
	if bits <= 0 {
		return ev
	}
	ev.Shift = ev.Shift || bits&1 != 0
	ev.Alt = ev.Alt || bits&2 != 0
	ev.Ctrl = ev.Ctrl || bits&4 != 0
	ev.Meta = ev.Meta || bits&8 != 0
	return ev
}
