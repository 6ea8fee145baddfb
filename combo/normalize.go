package combo

import (
	"fmt"

	"github.com/Alia5/micropad/keyboard"
)

// KeyEvent is a raw key-down event as delivered by a UI layer.
type KeyEvent struct {
	// Key is the physical key identifier using KeyboardEvent.key vocabulary
	// ("a", "Enter", "ArrowUp", " ", "Control", "MediaPlayPause", ...).
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Alt   bool   `json:"alt,omitempty"`
	Shift bool   `json:"shift,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	// Held lists other keys still held down when the event fired.
	Held []string `json:"held,omitempty"`
}

// Normalize turns a raw key event into a canonical combo.
//
// Active modifier flags become modifiers regardless of the order they were
// pressed. The event is rejected with ErrInvalidCombo when it carries no
// terminal key (modifier-only or empty) or when Held implies a second
// terminal key.
func Normalize(ev KeyEvent) (Combo, error) {
	var mods keyboard.Modifier
	if ev.Ctrl {
		mods |= keyboard.ModCtrl
	}
	if ev.Alt {
		mods |= keyboard.ModAlt
	}
	if ev.Shift {
		mods |= keyboard.ModShift
	}
	if ev.Meta {
		mods |= keyboard.ModMeta
	}

	if m, ok := keyboard.ModifierForKey(ev.Key); ok {
		mods |= m
		return Combo{}, fmt.Errorf("%w: modifier-only event (%s)", ErrInvalidCombo, Combo{mods: mods}.modifierString())
	}
	if ev.Key == "" {
		return Combo{}, fmt.Errorf("%w: empty event", ErrInvalidCombo)
	}

	k, ok := keyboard.LookupEvent(ev.Key)
	if !ok {
		return Combo{}, fmt.Errorf("%w: unknown key %q", ErrInvalidCombo, ev.Key)
	}

	for _, h := range ev.Held {
		if _, isMod := keyboard.ModifierForKey(h); isMod {
			continue
		}
		other, ok := keyboard.LookupEvent(h)
		if !ok || other.Name != k.Name {
			return Combo{}, fmt.Errorf("%w: %q held together with %q", ErrInvalidCombo, h, ev.Key)
		}
	}

	return Combo{mods: mods, key: k}, nil
}

func (c Combo) modifierString() string {
	s := ""
	for _, m := range keyboard.Modifiers {
		if c.mods&m == 0 {
			continue
		}
		if s != "" {
			s += "+"
		}
		s += m.String()
	}
	if s == "" {
		return "none"
	}
	return s
}
