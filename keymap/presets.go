package keymap

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Alia5/micropad/combo"
)

// ErrUnknownPreset is returned for preset names that are not built in.
var ErrUnknownPreset = errors.New("unknown preset")

// presets are application layouts for a 3x3 pad, row-major.
var presets = map[string][][]string{
	"fusion360":  {{"Ctrl+Z", "Ctrl+Y", "Ctrl+S"}, {"L", "D", "C"}, {"E", "X", "H"}},
	"canva":      {{"Ctrl+C", "Ctrl+V", "Ctrl+Z"}, {"T", "R", "L"}, {"Delete", "G", "B"}},
	"kicad":      {{"M", "R", "E"}, {"Ctrl+S", "Ctrl+Z", "Ctrl+Y"}, {"Ctrl+C", "Ctrl+V", "Del"}},
	"vscode":     {{"Ctrl+P", "Ctrl+Shift+P", "Ctrl+B"}, {"Ctrl+`", "Ctrl+F", "Ctrl+H"}, {"Ctrl+S", "Alt+Up", "Alt+Down"}},
	"warthunder": {{"G", "F", "H"}, {"V", "M", "N"}, {"B", "T", "Y"}},
}

// PresetNames returns the built-in preset names, sorted.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Preset builds the named preset as a profile.
func Preset(name string) (Profile, error) {
	rows, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	p := Profile{}
	for r, row := range rows {
		for c, s := range row {
			if s == "" {
				continue
			}
			cb, err := combo.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("preset %s at %d,%d: %w", name, r, c, err)
			}
			p[Position{Row: r, Col: c}] = cb
		}
	}
	return p, nil
}

// ApplyPreset replaces the profile with the named preset.
func (s *Store) ApplyPreset(profileID, name string) error {
	p, err := Preset(name)
	if err != nil {
		return err
	}
	return s.Replace(profileID, p)
}
