// Package selection drives the pick-a-key, capture-a-shortcut, commit flow
// used to program a single Micropad key.
package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/protocol"
)

var (
	// ErrNothingToAssign is returned by Commit before a shortcut was captured.
	ErrNothingToAssign = errors.New("no shortcut captured")
	// ErrNoSelection is returned when no key position is selected.
	ErrNoSelection = errors.New("no key selected")
)

// State of the controller.
type State string

const (
	Idle      State = "idle"
	Selecting State = "selecting"
	Captured  State = "captured"
)

// Sink receives commands produced by Commit.
type Sink interface {
	Send(ctx context.Context, cmd protocol.Command) error
}

// Controller holds the selection for one store. It is not safe for
// concurrent use.
type Controller struct {
	store   *keymap.Store
	enc     *protocol.Encoder
	sink    Sink
	profile string

	state     State
	pos       keymap.Position
	candidate combo.Combo
}

// New returns an idle controller editing profileID. A nil sink drops
// commands after encoding them.
func New(store *keymap.Store, enc *protocol.Encoder, sink Sink, profileID string) (*Controller, error) {
	if _, err := store.Index(profileID); err != nil {
		return nil, err
	}
	return &Controller{store: store, enc: enc, sink: sink, profile: profileID, state: Idle}, nil
}

// SetSink replaces the command sink.
func (c *Controller) SetSink(s Sink) { c.sink = s }

// SetStore points the controller at a reloaded store and resets it.
func (c *Controller) SetStore(s *keymap.Store) error {
	if _, err := s.Index(c.profile); err != nil {
		return err
	}
	c.store = s
	c.reset()
	return nil
}

// SelectPosition starts a selection at pos, discarding any candidate.
func (c *Controller) SelectPosition(pos keymap.Position) error {
	if !c.store.Grid().Contains(pos) {
		return fmt.Errorf("%w: position %s", keymap.ErrOutOfRange, pos)
	}
	c.state = Selecting
	c.pos = pos
	c.candidate = combo.Combo{}
	return nil
}

// KeyEvent feeds a raw key event. An invalid event leaves the state and any
// earlier candidate untouched.
func (c *Controller) KeyEvent(ev combo.KeyEvent) error {
	if c.state == Idle {
		return ErrNoSelection
	}
	cb, err := combo.Normalize(ev)
	if err != nil {
		return err
	}
	c.capture(cb)
	return nil
}

// Submit feeds a typed shortcut such as "ctrl + shift + m".
func (c *Controller) Submit(value string) error {
	if c.state == Idle {
		return ErrNoSelection
	}
	cb, err := combo.Parse(value)
	if err != nil {
		return err
	}
	c.capture(cb)
	return nil
}

func (c *Controller) capture(cb combo.Combo) {
	c.candidate = cb
	c.state = Captured
}

// Commit stores the candidate in the active profile and sends the matching
// assignment command. A sink failure is reported wrapped in
// link.ErrTransportFailure; the assignment stays in the store and the
// controller returns to Idle either way.
func (c *Controller) Commit(ctx context.Context) (protocol.Command, error) {
	switch c.state {
	case Idle:
		return protocol.Command{}, ErrNoSelection
	case Selecting:
		return protocol.Command{}, ErrNothingToAssign
	}

	cmd, err := c.enc.EncodeAssign(c.pos, c.candidate)
	if err != nil {
		return protocol.Command{}, err
	}
	if err := c.store.Assign(c.profile, c.pos, c.candidate); err != nil {
		return protocol.Command{}, err
	}
	c.reset()

	if c.sink == nil {
		return cmd, nil
	}
	if err := c.sink.Send(ctx, cmd); err != nil {
		if !errors.Is(err, link.ErrTransportFailure) && !errors.Is(err, link.ErrNotConnected) {
			err = fmt.Errorf("%w: %v", link.ErrTransportFailure, err)
		}
		return cmd, err
	}
	return cmd, nil
}

// Cancel discards the selection.
func (c *Controller) Cancel() { c.reset() }

func (c *Controller) reset() {
	c.state = Idle
	c.pos = keymap.Position{}
	c.candidate = combo.Combo{}
}

// SetProfile switches the active profile and clears the selection.
func (c *Controller) SetProfile(profileID string) error {
	if _, err := c.store.Index(profileID); err != nil {
		return err
	}
	c.profile = profileID
	c.reset()
	return nil
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Profile() string { return c.profile }

// Position returns the selected position; ok is false when Idle.
func (c *Controller) Position() (keymap.Position, bool) {
	return c.pos, c.state != Idle
}

// Candidate returns the captured combo; ok is false unless Captured.
func (c *Controller) Candidate() (combo.Combo, bool) {
	return c.candidate, c.state == Captured
}

// AwaitingInput reports whether a shortcut may be typed or pressed.
func (c *Controller) AwaitingInput() bool { return c.state != Idle }

// Snapshot is a read-only view of the controller.
type Snapshot struct {
	State     State  `json:"state"`
	Profile   string `json:"profile"`
	Position  string `json:"position,omitempty"`
	Index     *int   `json:"index,omitempty"`
	Candidate string `json:"candidate,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{State: c.state, Profile: c.profile}
	if c.state != Idle {
		idx := c.store.Grid().Index(c.pos)
		s.Position = c.pos.String()
		s.Index = &idx
	}
	if c.state == Captured {
		s.Candidate = c.candidate.String()
	}
	return s
}
