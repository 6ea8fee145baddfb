package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/internal/render"
)

type Show struct {
	Profile  string `help:"Profile to show (default: all)" short:"p"`
	Platform string `help:"Label platform: macos, windows, linux (default: this host)"`
	NoIcons  bool   `help:"Do not prefix media keys with icons"`
}

// Run is called by Kong when the show command is executed.
func (s *Show) Run(ws *Workspace, logger *slog.Logger, out io.Writer) error {
	sess, err := ws.Open(logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	platform := combo.DetectPlatform()
	if s.Platform != "" {
		platform = combo.ParsePlatform(s.Platform)
	}

	views := sess.Profiles()
	if s.Profile != "" {
		v, err := sess.Profile(s.Profile)
		if err != nil {
			return err
		}
		views = views[:0]
		views = append(views, v)
	}
	for _, v := range views {
		title := fmt.Sprintf("%s (%d/%d assigned)", v.ID, v.Assigned, sess.Grid().Size())
		grid := render.Grid(v.Rows, render.Options{Title: title, Platform: platform, Icons: !s.NoIcons})
		if _, err := fmt.Fprintln(out, grid); err != nil {
			return err
		}
	}
	return nil
}
