package keymap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Alia5/micropad/combo"
	"github.com/tidwall/gjson"
)

// StorageKey is the well-known key the serialized store is kept under.
const StorageKey = "micropadProfiles"

// Decode builds a store from its serialized form. The returned store is
// never nil: on ErrCorruptProfileData it holds empty profiles.
func Decode(o Options, data []byte) (*Store, error) {
	s := New(o)
	return s, s.Load(data)
}

// Serialize encodes the store as a JSON array with one object per profile,
// keyed by flat key index:
//
//	[{"0":"Ctrl+C","8":"Delete"},{},{},{}]
func (s *Store) Serialize() ([]byte, error) {
	out := make([]map[string]string, len(s.profiles))
	for i, p := range s.profiles {
		m := make(map[string]string, len(p))
		for pos, c := range p {
			m[strconv.Itoa(s.grid.Index(pos))] = c.String()
		}
		out[i] = m
	}
	return json.Marshal(out)
}

// Load replaces every profile with the content of data. Empty data yields
// empty profiles. Data of the wrong shape (not JSON, not an array of exactly
// Len() objects, keys outside the grid, values that are not valid combos)
// fails with ErrCorruptProfileData and leaves the store with empty profiles;
// nothing from the bad data is applied.
func (s *Store) Load(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		s.reset()
		return nil
	}
	profiles, err := s.decode(data)
	if err != nil {
		s.reset()
		return err
	}
	s.profiles = profiles
	return nil
}

func (s *Store) decode(data []byte) ([]Profile, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrCorruptProfileData)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of profiles, got %s", ErrCorruptProfileData, root.Type)
	}
	items := root.Array()
	if len(items) != len(s.ids) {
		return nil, fmt.Errorf("%w: expected %d profiles, got %d", ErrCorruptProfileData, len(s.ids), len(items))
	}

	out := make([]Profile, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: profile %d is not an object", ErrCorruptProfileData, i)
		}
		p := Profile{}
		var perr error
		item.ForEach(func(key, value gjson.Result) bool {
			pos, err := s.grid.ParsePosition(key.String())
			if err != nil {
				perr = fmt.Errorf("%w: profile %d: %v", ErrCorruptProfileData, i, err)
				return false
			}
			if value.Type != gjson.String {
				perr = fmt.Errorf("%w: profile %d key %s: expected string", ErrCorruptProfileData, i, key.String())
				return false
			}
			if value.String() == "" {
				return true
			}
			c, err := combo.Parse(value.String())
			if err != nil {
				perr = fmt.Errorf("%w: profile %d key %s: %v", ErrCorruptProfileData, i, key.String(), err)
				return false
			}
			p[pos] = c
			return true
		})
		if perr != nil {
			return nil, perr
		}
		out[i] = p
	}
	return out, nil
}
