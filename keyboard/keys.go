package keyboard

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Modifier is one of the four shortcut modifiers. Values are bit flags so a
// set of modifiers fits in a single Modifier.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModMeta
)

// Modifiers lists every modifier in canonical order.
var Modifiers = [...]Modifier{ModCtrl, ModAlt, ModShift, ModMeta}

func (m Modifier) String() string {
	switch m {
	case ModCtrl:
		return "Ctrl"
	case ModAlt:
		return "Alt"
	case ModShift:
		return "Shift"
	case ModMeta:
		return "Meta"
	default:
		return "Modifier(" + strconv.Itoa(int(m)) + ")"
	}
}

// HID returns the left-hand HID modifier bitmask for the set m.
func (m Modifier) HID() uint8 {
	var b uint8
	if m&ModCtrl != 0 {
		b |= HIDLeftCtrl
	}
	if m&ModAlt != 0 {
		b |= HIDLeftAlt
	}
	if m&ModShift != 0 {
		b |= HIDLeftShift
	}
	if m&ModMeta != 0 {
		b |= HIDLeftGUI
	}
	return b
}

// LookupModifier resolves a typed modifier token such as "ctrl", "cmd" or
// "option".
func LookupModifier(token string) (Modifier, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "ctrl", "control", "ctl":
		return ModCtrl, true
	case "alt", "option", "opt":
		return ModAlt, true
	case "shift":
		return ModShift, true
	case "meta", "cmd", "command", "win", "super", "gui":
		return ModMeta, true
	}
	return 0, false
}

// ModifierForKey reports which modifier a physical key identifier belongs to
// when the pressed key itself is a modifier ("Control", "Shift", "OS", ...).
func ModifierForKey(key string) (Modifier, bool) {
	switch key {
	case "Control":
		return ModCtrl, true
	case "Alt", "AltGraph", "Option":
		return ModAlt, true
	case "Shift":
		return ModShift, true
	case "Meta", "OS", "Super", "Hyper", "Win", "Command":
		return ModMeta, true
	}
	return LookupModifier(key)
}

// Key is a resolved terminal key.
type Key struct {
	// Name is the canonical token stored in profiles and sent on the wire.
	Name string
	// Usage is the HID usage code.
	Usage uint8
	// Media marks keys from the closed media set.
	Media bool
}

// Lookup resolves a key identifier to its canonical form. Single printable
// characters are upper-cased, named keys and media keys get canonical casing
// and known aliases are followed. Modifier keys are not terminal keys and are
// not found.
func Lookup(name string) (Key, bool) {
	if name == "" {
		return Key{}, false
	}
	if name == " " {
		return Key{Name: "Space", Usage: KeySpace}, true
	}
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) == 1 {
		return lookupChar([]rune(name)[0])
	}
	if _, ok := ModifierForKey(name); ok {
		return Key{}, false
	}

	lower := strings.ToLower(name)
	if canon, ok := aliases[lower]; ok {
		if utf8.RuneCountInString(canon) == 1 {
			return lookupChar([]rune(canon)[0])
		}
		lower = strings.ToLower(canon)
	}
	for canon, usage := range mediaKeys {
		if strings.ToLower(canon) == lower {
			return Key{Name: canon, Usage: usage, Media: true}, true
		}
	}
	for canon, usage := range namedKeys {
		if strings.ToLower(canon) == lower {
			return Key{Name: canon, Usage: usage}, true
		}
	}
	if n, ok := functionKey(lower); ok {
		return Key{Name: "F" + strconv.Itoa(n), Usage: functionUsage(n)}, true
	}
	return Key{}, false
}

// LookupEvent resolves a key identifier reported by a key event. It differs
// from Lookup only for identifiers such as "Pause", which names the
// Pause/Break key in events but the media pause key when typed.
func LookupEvent(name string) (Key, bool) {
	if canon, ok := eventKeys[name]; ok {
		name = canon
	}
	return Lookup(name)
}

func lookupChar(r rune) (Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		r = unicode.ToUpper(r)
		fallthrough
	case r >= 'A' && r <= 'Z':
		return Key{Name: string(r), Usage: uint8(KeyA + (r - 'A'))}, true
	case r == '0':
		return Key{Name: "0", Usage: Key0}, true
	case r >= '1' && r <= '9':
		return Key{Name: string(r), Usage: uint8(Key1 + (r - '1'))}, true
	}
	if usage, ok := punctUsage[r]; ok {
		return Key{Name: string(r), Usage: usage}, true
	}
	if unicode.IsPrint(r) && !unicode.IsSpace(r) {
		up := unicode.ToUpper(r)
		return Key{Name: string(up)}, true
	}
	return Key{}, false
}

// functionKey parses "f1".."f24".
func functionKey(lower string) (int, bool) {
	if len(lower) < 2 || lower[0] != 'f' {
		return 0, false
	}
	n, err := strconv.Atoi(lower[1:])
	if err != nil || n < 1 || n > 24 || strconv.Itoa(n) != lower[1:] {
		return 0, false
	}
	return n, true
}

func functionUsage(n int) uint8 {
	if n <= 12 {
		return uint8(KeyF1 + n - 1)
	}
	return uint8(KeyF13 + n - 13)
}
