// Package combo implements the canonical shortcut representation used by the
// Micropad: a set of modifiers plus exactly one terminal key.
//
// The canonical string form joins tokens with '+' and no whitespace, with
// modifiers always in the order Ctrl, Alt, Shift, Meta:
//
//	Ctrl+Shift+M
//	Alt+Up
//	MediaPlayPause
//
// The stored form is platform independent. Use PlatformLabel to render a
// combo for display.
package combo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alia5/micropad/keyboard"
)

// ErrInvalidCombo is returned for empty, modifier-only, ambiguous or unknown
// shortcuts. Callers must not store a combo when it is returned.
var ErrInvalidCombo = errors.New("invalid combo")

// Combo is a normalized shortcut. The zero value is the invalid, absent combo.
type Combo struct {
	mods keyboard.Modifier
	key  keyboard.Key
}

// New builds a combo from a modifier set and a key identifier.
func New(mods keyboard.Modifier, key string) (Combo, error) {
	k, ok := keyboard.Lookup(key)
	if !ok {
		return Combo{}, fmt.Errorf("%w: unknown key %q", ErrInvalidCombo, key)
	}
	return Combo{mods: mods & (keyboard.ModCtrl | keyboard.ModAlt | keyboard.ModShift | keyboard.ModMeta), key: k}, nil
}

// MustParse is like Parse but panics on error. Intended for tables and tests.
func MustParse(s string) Combo {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse reads a typed or stored shortcut such as "Ctrl + Alt + M",
// "cmd+s" or "Ctrl++". Modifier duplicates collapse; a second terminal key
// or an unknown token is rejected.
func Parse(s string) (Combo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Combo{}, fmt.Errorf("%w: empty", ErrInvalidCombo)
	}

	var c Combo
	hasKey := false
	for _, tok := range splitTokens(s) {
		if m, ok := keyboard.LookupModifier(tok); ok {
			c.mods |= m
			continue
		}
		k, ok := keyboard.Lookup(tok)
		if !ok {
			return Combo{}, fmt.Errorf("%w: unknown key %q", ErrInvalidCombo, tok)
		}
		if hasKey {
			return Combo{}, fmt.Errorf("%w: more than one key in %q", ErrInvalidCombo, s)
		}
		c.key = k
		hasKey = true
	}
	if !hasKey {
		return Combo{}, fmt.Errorf("%w: no key in %q", ErrInvalidCombo, s)
	}
	return c, nil
}

// splitTokens splits on '+' while treating a '+' that directly follows a
// separator (or starts the string) as the plus key itself.
func splitTokens(s string) []string {
	var out []string
	var cur strings.Builder
	expectToken := true
	for _, r := range s {
		switch {
		case r == '+' && expectToken:
			cur.WriteRune(r)
			expectToken = false
		case r == '+':
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
			expectToken = true
		case r == ' ' || r == '\t':
			if cur.Len() > 0 {
				cur.WriteRune(r)
			}
		default:
			cur.WriteRune(r)
			expectToken = false
		}
	}
	if cur.Len() > 0 || !expectToken {
		out = append(out, strings.TrimSpace(cur.String()))
	} else {
		out = append(out, "")
	}
	return out
}

// IsZero reports whether c is the absent combo.
func (c Combo) IsZero() bool { return c.key.Name == "" }

// Modifiers returns the modifier set.
func (c Combo) Modifiers() keyboard.Modifier { return c.mods }

// Has reports whether modifier m is part of the combo.
func (c Combo) Has(m keyboard.Modifier) bool { return c.mods&m != 0 }

// Key returns the terminal key.
func (c Combo) Key() keyboard.Key { return c.key }

// Tokens returns the canonical tokens, modifiers first in canonical order.
func (c Combo) Tokens() []string {
	if c.IsZero() {
		return nil
	}
	out := make([]string, 0, 5)
	for _, m := range keyboard.Modifiers {
		if c.mods&m != 0 {
			out = append(out, m.String())
		}
	}
	return append(out, c.key.Name)
}

// String returns the canonical wire form, e.g. "Ctrl+Shift+M".
func (c Combo) String() string {
	return strings.Join(c.Tokens(), "+")
}

// Report returns the HID modifier byte and usage code for the combo.
func (c Combo) Report() (modifiers uint8, usage uint8) {
	return c.mods.HID(), c.key.Usage
}

// MarshalText implements encoding.TextMarshaler.
func (c Combo) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input yields
// the zero combo.
func (c *Combo) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*c = Combo{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
