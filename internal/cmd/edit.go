package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/session"
)

// edit opens the workspace, applies fn and saves.
func edit(ws *Workspace, logger *slog.Logger, fn func(sess *session.Session) error) error {
	sess, err := ws.Open(logger)
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := fn(sess); err != nil {
		return err
	}
	return sess.Save()
}

type Assign struct {
	Profile  string `arg:"" help:"Profile id"`
	Position string `arg:"" help:"Key position: row,col or flat index"`
	Combo    string `arg:"" help:"Shortcut, e.g. \"Ctrl+Shift+M\""`
}

// Run is called by Kong when the assign command is executed.
func (a *Assign) Run(ws *Workspace, logger *slog.Logger, out io.Writer) error {
	return edit(ws, logger, func(sess *session.Session) error {
		pos, err := sess.Grid().ParsePosition(a.Position)
		if err != nil {
			return err
		}
		c, err := combo.Parse(a.Combo)
		if err != nil {
			return err
		}
		if err := sess.Assign(a.Profile, pos, c); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s %s = %s\n", a.Profile, pos, c)
		return err
	})
}

type Clear struct {
	Profile  string `arg:"" help:"Profile id"`
	Position string `arg:"" help:"Key position: row,col or flat index"`
}

// Run is called by Kong when the clear command is executed.
func (c *Clear) Run(ws *Workspace, logger *slog.Logger, out io.Writer) error {
	return edit(ws, logger, func(sess *session.Session) error {
		pos, err := sess.Grid().ParsePosition(c.Position)
		if err != nil {
			return err
		}
		if err := sess.Clear(c.Profile, pos); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s %s cleared\n", c.Profile, pos)
		return err
	})
}

type Swap struct {
	Profile string `arg:"" help:"Profile id"`
	A       string `arg:"" help:"First key position"`
	B       string `arg:"" help:"Second key position"`
}

// Run is called by Kong when the swap command is executed.
func (s *Swap) Run(ws *Workspace, logger *slog.Logger, out io.Writer) error {
	return edit(ws, logger, func(sess *session.Session) error {
		a, err := sess.Grid().ParsePosition(s.A)
		if err != nil {
			return err
		}
		b, err := sess.Grid().ParsePosition(s.B)
		if err != nil {
			return err
		}
		if err := sess.Swap(s.Profile, a, b); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s %s <-> %s\n", s.Profile, a, b)
		return err
	})
}

type Preset struct {
	Profile string `arg:"" help:"Profile id" optional:""`
	Name    string `arg:"" help:"Preset name; omit to list presets" optional:""`
}

// Run is called by Kong when the preset command is executed.
func (p *Preset) Run(ws *Workspace, logger *slog.Logger, out io.Writer) error {
	if p.Name == "" {
		_, err := fmt.Fprintln(out, strings.Join(keymap.PresetNames(), "\n"))
		return err
	}
	return edit(ws, logger, func(sess *session.Session) error {
		name := strings.ToLower(p.Name)
		if err := sess.ApplyPreset(p.Profile, name); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "%s <- preset %s\n", p.Profile, name)
		return err
	})
}
