package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alia5/micropad/internal/log"
	"github.com/Alia5/micropad/internal/storage"
	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/protocol"
	"github.com/Alia5/micropad/session"
)

// GridConfig is the keypad shape.
type GridConfig struct {
	Rows int `help:"Keypad rows" default:"3" env:"MICROPAD_GRID_ROWS"`
	Cols int `help:"Keypad columns" default:"3" env:"MICROPAD_GRID_COLS"`
}

// Workspace holds the options every command shares.
type Workspace struct {
	Store    storage.Config `embed:"" prefix:"store."`
	Grid     GridConfig     `embed:"" prefix:"grid."`
	Profiles []string       `help:"Profile ids in slot order (default profile1..profile4)" sep:"," env:"MICROPAD_PROFILES"`
	Dialect  string         `help:"Assignment command dialect: index (SETUP:<i>:<combo>) or rowcol (SET <r>,<c>,<combo>)" enum:"index,rowcol" default:"index" env:"MICROPAD_DIALECT"`
}

func (w *Workspace) grid() keymap.Grid {
	return keymap.Grid{Rows: w.Grid.Rows, Cols: w.Grid.Cols}
}

// Open loads the persisted profiles into a new session.
func (w *Workspace) Open(logger *slog.Logger) (*session.Session, error) {
	backend, err := storage.Open(w.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", w.Store.Backend, err)
	}
	sess, err := session.New(backend, session.Options{
		Grid:     w.grid(),
		Profiles: w.Profiles,
		Dialect:  protocol.Dialect(w.Dialect),
		Logger:   logger,
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return sess, nil
}

// Attach opens the serial port and attaches it to sess. The link lives until
// ctx is done or the session is closed.
func (w *Workspace) Attach(ctx context.Context, sess *session.Session, cfg link.SerialConfig, logger *slog.Logger, raw log.RawLogger) error {
	l, err := link.Open(cfg, link.Options{Grid: sess.Grid(), Logger: logger, Raw: raw})
	if err != nil {
		return err
	}
	sess.Attach(ctx, l)
	return nil
}

// profileOrActive resolves an optional --profile flag.
func profileOrActive(sess *session.Session, id string) string {
	if id == "" {
		return sess.Active()
	}
	return id
}
