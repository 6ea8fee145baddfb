// Package session owns one configurator instance: the profile store, the
// selection controller, the protocol encoder, the persistence backend and
// an optional device link. Every method is safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/internal/storage"
	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/protocol"
	"github.com/Alia5/micropad/selection"
)

// Options configures a Session.
type Options struct {
	Grid     keymap.Grid
	Profiles []string
	Dialect  protocol.Dialect
	Logger   *slog.Logger
}

// Session is the explicit application context.
type Session struct {
	mu       sync.Mutex
	opts     keymap.Options
	store    *keymap.Store
	ctrl     *selection.Controller
	enc      *protocol.Encoder
	backend  storage.Backend
	link     *link.Link
	linkDone chan struct{} // closed when link stops listening
	logger   *slog.Logger
	hub      *hub
}

// New creates a session and loads persisted profiles from backend. Missing
// or malformed data yields empty profiles and is only logged.
func New(backend storage.Backend, o Options) (*Session, error) {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	ko := keymap.Options{Grid: o.Grid, Profiles: o.Profiles}
	store := keymap.New(ko)
	enc := protocol.NewEncoder(store.Grid(), o.Dialect)
	ctrl, err := selection.New(store, enc, nil, store.IDs()[0])
	if err != nil {
		return nil, err
	}
	s := &Session{
		opts:    keymap.Options{Grid: store.Grid(), Profiles: store.IDs()},
		store:   store,
		ctrl:    ctrl,
		enc:     enc,
		backend: backend,
		logger:  o.Logger,
		hub:     newHub(),
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReloadResult reports how persisted data was applied.
type ReloadResult struct {
	Found     bool   `json:"found"`
	Recovered bool   `json:"recovered"`
	Detail    string `json:"detail,omitempty"`
}

// Reload replaces the in-memory profiles with the persisted ones, dropping
// unsaved changes. Only backend failures are returned as errors.
func (s *Session) Reload() (ReloadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res ReloadResult
	data, ok, err := s.backend.Get(keymap.StorageKey)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", keymap.StorageKey, err)
	}
	res.Found = ok
	store, err := keymap.Decode(s.opts, data)
	if err != nil {
		if !errors.Is(err, keymap.ErrCorruptProfileData) {
			return res, err
		}
		res.Recovered = true
		res.Detail = err.Error()
		s.logger.Warn("stored profiles are unreadable, starting with empty profiles", "error", err)
	}
	s.store = store
	if err := s.ctrl.SetStore(store); err != nil {
		return res, err
	}
	s.logger.Debug("profiles loaded", "found", ok, "profiles", store.Len())
	return res, nil
}

// Save persists the current profiles.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.store.Serialize()
	if err != nil {
		return err
	}
	if err := s.backend.Put(keymap.StorageKey, data); err != nil {
		return fmt.Errorf("write %s: %w", keymap.StorageKey, err)
	}
	s.logger.Info("profiles saved", "bytes", len(data))
	return nil
}

// Close closes the link and the backend.
func (s *Session) Close() error {
	s.Detach()
	s.hub.close()
	return s.backend.Close()
}

func (s *Session) Grid() keymap.Grid { return s.opts.Grid }

func (s *Session) Encoder() *protocol.Encoder { return s.enc }

// ProfileView summarizes one profile.
type ProfileView struct {
	ID       string     `json:"id"`
	Active   bool       `json:"active"`
	Assigned int        `json:"assigned"`
	Rows     [][]string `json:"rows"`
}

// Profiles lists every profile in slot order.
func (s *Session) Profiles() []ProfileView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProfileView, 0, s.store.Len())
	for _, id := range s.store.IDs() {
		out = append(out, s.viewLocked(id))
	}
	return out
}

// Profile returns one profile.
func (s *Session) Profile(id string) (ProfileView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Index(id); err != nil {
		return ProfileView{}, err
	}
	return s.viewLocked(id), nil
}

func (s *Session) viewLocked(id string) ProfileView {
	p, _ := s.store.Profile(id)
	rows, _ := s.store.Rows(id)
	return ProfileView{ID: id, Active: id == s.ctrl.Profile(), Assigned: len(p), Rows: rows}
}

// Mapping returns the combos of a profile.
func (s *Session) Mapping(id string) (keymap.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Profile(id)
}

// Active returns the id of the profile being edited.
func (s *Session) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Profile()
}

// Activate switches the edited profile and clears the selection.
func (s *Session) Activate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.SetProfile(id)
}

// Assign stores c at pos of profile id. It does not persist or send.
func (s *Session) Assign(id string, pos keymap.Position, c combo.Combo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Assign(id, pos, c)
}

func (s *Session) Clear(id string, pos keymap.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(id, pos)
}

func (s *Session) Swap(id string, a, b keymap.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Swap(id, a, b)
}

func (s *Session) ApplyPreset(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ApplyPreset(id, name)
}

// Selection returns the controller state.
func (s *Session) Selection() selection.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Snapshot()
}

func (s *Session) Select(pos keymap.Position) (selection.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ctrl.SelectPosition(pos)
	return s.ctrl.Snapshot(), err
}

func (s *Session) KeyEvent(ev combo.KeyEvent) (selection.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ctrl.KeyEvent(ev)
	return s.ctrl.Snapshot(), err
}

func (s *Session) Submit(value string) (selection.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ctrl.Submit(value)
	return s.ctrl.Snapshot(), err
}

// Commit assigns the captured combo and, when a device is attached, sends
// it. The assignment is kept even if sending fails.
func (s *Session) Commit(ctx context.Context) (protocol.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd, err := s.ctrl.Commit(ctx)
	if err == nil || errors.Is(err, link.ErrTransportFailure) {
		s.logger.Info("key assigned", "profile", s.ctrl.Profile(), "command", cmd.Line, "sent", s.link != nil && err == nil)
	}
	return cmd, err
}

func (s *Session) Cancel() selection.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Cancel()
	return s.ctrl.Snapshot()
}
