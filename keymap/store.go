// Package keymap holds the per-profile grid-position to shortcut mappings of
// a Micropad and their persisted form.
package keymap

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/Alia5/micropad/combo"
)

var (
	// ErrOutOfRange is returned for unknown profile ids and positions
	// outside the grid. The store is never modified when it is returned.
	ErrOutOfRange = errors.New("out of range")
	// ErrCorruptProfileData is returned by Load when the persisted form does
	// not have the expected shape.
	ErrCorruptProfileData = errors.New("corrupt profile data")
)

// DefaultProfileCount is the number of profile slots on a Micropad.
const DefaultProfileCount = 4

// Profile maps positions to combos. Unassigned positions are absent.
type Profile map[Position]combo.Combo

// Clone returns an independent copy of p.
func (p Profile) Clone() Profile {
	out := make(Profile, len(p))
	maps.Copy(out, p)
	return out
}

// Positions returns the occupied positions in row-major order.
func (p Profile) Positions() []Position {
	out := slices.Collect(maps.Keys(p))
	slices.SortFunc(out, func(a, b Position) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// Options configures a Store.
type Options struct {
	Grid Grid
	// Profiles are the profile ids, in slot order. Defaults to
	// profile1..profile4.
	Profiles []string
}

// DefaultProfileIDs returns the ids profile1..profileN.
func DefaultProfileIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "profile" + strconv.Itoa(i+1)
	}
	return ids
}

// Store holds a fixed number of profiles over one grid. The number of
// profiles never changes after New.
type Store struct {
	grid     Grid
	ids      []string
	profiles []Profile
}

// New creates a store with every profile empty.
func New(o Options) *Store {
	if o.Grid.Rows <= 0 || o.Grid.Cols <= 0 {
		o.Grid = DefaultGrid
	}
	if len(o.Profiles) == 0 {
		o.Profiles = DefaultProfileIDs(DefaultProfileCount)
	}
	s := &Store{
		grid: o.Grid,
		ids:  slices.Clone(o.Profiles),
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.profiles = make([]Profile, len(s.ids))
	for i := range s.profiles {
		s.profiles[i] = Profile{}
	}
}

// Grid returns the store's grid.
func (s *Store) Grid() Grid { return s.grid }

// IDs returns the profile ids in slot order.
func (s *Store) IDs() []string { return slices.Clone(s.ids) }

// Len returns the number of profile slots.
func (s *Store) Len() int { return len(s.ids) }

// Index returns the slot of profileID.
func (s *Store) Index(profileID string) (int, error) {
	i := slices.Index(s.ids, profileID)
	if i < 0 {
		return -1, fmt.Errorf("%w: unknown profile %q", ErrOutOfRange, profileID)
	}
	return i, nil
}

func (s *Store) locate(profileID string, positions ...Position) (Profile, error) {
	i, err := s.Index(profileID)
	if err != nil {
		return nil, err
	}
	for _, p := range positions {
		if !s.grid.Contains(p) {
			return nil, fmt.Errorf("%w: position %s outside %dx%d grid", ErrOutOfRange, p, s.grid.Rows, s.grid.Cols)
		}
	}
	return s.profiles[i], nil
}

// Get returns the combo assigned at pos, if any.
func (s *Store) Get(profileID string, pos Position) (combo.Combo, bool) {
	p, err := s.locate(profileID, pos)
	if err != nil {
		return combo.Combo{}, false
	}
	c, ok := p[pos]
	return c, ok
}

// Assign stores c at pos, replacing any previous assignment.
func (s *Store) Assign(profileID string, pos Position, c combo.Combo) error {
	p, err := s.locate(profileID, pos)
	if err != nil {
		return err
	}
	if c.IsZero() {
		return fmt.Errorf("%w: cannot assign empty combo", combo.ErrInvalidCombo)
	}
	p[pos] = c
	return nil
}

// Clear removes the assignment at pos.
func (s *Store) Clear(profileID string, pos Position) error {
	p, err := s.locate(profileID, pos)
	if err != nil {
		return err
	}
	delete(p, pos)
	return nil
}

// Swap exchanges the assignments at a and b. Empty positions swap as empty.
func (s *Store) Swap(profileID string, a, b Position) error {
	p, err := s.locate(profileID, a, b)
	if err != nil {
		return err
	}
	ca, okA := p[a]
	cb, okB := p[b]
	delete(p, a)
	delete(p, b)
	if okB {
		p[a] = cb
	}
	if okA {
		p[b] = ca
	}
	return nil
}

// Replace sets the whole profile. Every position must lie inside the grid.
func (s *Store) Replace(profileID string, next Profile) error {
	positions := slices.Collect(maps.Keys(next))
	i, err := s.Index(profileID)
	if err != nil {
		return err
	}
	if _, err := s.locate(profileID, positions...); err != nil {
		return err
	}
	for pos, c := range next {
		if c.IsZero() {
			return fmt.Errorf("%w: empty combo at %s", combo.ErrInvalidCombo, pos)
		}
	}
	s.profiles[i] = next.Clone()
	return nil
}

// Profile returns a copy of the profile.
func (s *Store) Profile(profileID string) (Profile, error) {
	p, err := s.locate(profileID)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Profiles returns copies of every profile in slot order.
func (s *Store) Profiles() []Profile {
	out := make([]Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.Clone()
	}
	return out
}

// Rows returns the profile as a row-major grid of canonical strings, with
// "" for unassigned keys.
func (s *Store) Rows(profileID string) ([][]string, error) {
	p, err := s.locate(profileID)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, s.grid.Rows)
	for r := range rows {
		rows[r] = make([]string, s.grid.Cols)
		for c := range rows[r] {
			if cb, ok := p[Position{Row: r, Col: c}]; ok {
				rows[r][c] = cb.String()
			}
		}
	}
	return rows, nil
}

// Equal reports whether both stores have the same layout and mappings.
func (s *Store) Equal(o *Store) bool {
	if s.grid != o.grid || !slices.Equal(s.ids, o.ids) {
		return false
	}
	for i := range s.profiles {
		if !maps.Equal(s.profiles[i], o.profiles[i]) {
			return false
		}
	}
	return true
}
