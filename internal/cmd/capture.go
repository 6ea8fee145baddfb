package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/internal/log"
	"github.com/Alia5/micropad/internal/render"
	"github.com/Alia5/micropad/internal/termkeys"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/session"
)

// errCaptureAborted is returned when the user leaves capture with Escape.
var errCaptureAborted = errors.New("capture aborted")

type Capture struct {
	Profile  string `arg:"" help:"Profile id"`
	Position string `arg:"" help:"Key position: row,col or flat index"`
	Text     string `help:"Use this shortcut text instead of reading the keyboard"`
	Yes      bool   `help:"Commit without asking for confirmation" short:"y"`

	link.SerialConfig `embed:""`
}

// Run is called by Kong when the capture command is executed.
func (c *Capture) Run(ws *Workspace, logger *slog.Logger, rawLogger log.RawLogger, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := ws.Open(logger)
	if err != nil {
		return err
	}
	defer sess.Close()
	if c.Port != "" {
		if err := ws.Attach(ctx, sess, c.SerialConfig, logger, rawLogger); err != nil {
			return err
		}
	}

	if c.Text == "" {
		restore, err := termkeys.Raw(os.Stdin)
		if err != nil {
			return fmt.Errorf("%w; pass the shortcut with --text", err)
		}
		defer restore()
		out = crlfWriter{out}
	}
	return c.capture(ctx, sess, termkeys.NewReader(os.Stdin), out)
}

// capture drives the selection controller: select, capture, confirm, commit,
// save.
func (c *Capture) capture(ctx context.Context, sess *session.Session, keys *termkeys.Reader, out io.Writer) error {
	if err := sess.Activate(c.Profile); err != nil {
		return err
	}
	pos, err := sess.Grid().ParsePosition(c.Position)
	if err != nil {
		return err
	}
	if _, err := sess.Select(pos); err != nil {
		return err
	}
	rows, _ := sess.Profile(c.Profile)
	fmt.Fprintln(out, render.Grid(rows.Rows, render.Options{Title: c.Profile, Selected: &pos, Icons: true}))

	var candidate string
	for {
		if c.Text != "" {
			if _, err := sess.Submit(c.Text); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "press the shortcut for key %s (Esc to abort)\n", pos)
			if err := readCombo(sess, keys, out); err != nil {
				sess.Cancel()
				return err
			}
		}
		candidate = sess.Selection().Candidate
		if c.Yes || c.Text != "" {
			break
		}
		fmt.Fprintf(out, "assign %s to %s? [y/N] ", combo.PlatformLabel(combo.MustParse(candidate), combo.DetectPlatform()), pos)
		ok, err := confirm(keys)
		fmt.Fprintln(out)
		if err != nil {
			sess.Cancel()
			return err
		}
		if ok {
			break
		}
		if _, err := sess.Select(pos); err != nil {
			return err
		}
	}

	cmd, err := sess.Commit(ctx)
	if err != nil && !errors.Is(err, link.ErrTransportFailure) {
		return err
	}
	if serr := sess.Save(); serr != nil {
		return serr
	}
	if err != nil {
		return fmt.Errorf("saved locally, but sending %q failed: %w", cmd.Line, err)
	}
	fmt.Fprintf(out, "%s %s = %s\n", c.Profile, pos, candidate)
	return nil
}

// readCombo feeds key events to the session until one is captured.
func readCombo(sess *session.Session, keys *termkeys.Reader, out io.Writer) error {
	for {
		evs, err := keys.Next()
		if err != nil {
			return err
		}
		for _, ev := range evs {
			if ev.Key == "Escape" && !ev.Ctrl && !ev.Alt && !ev.Shift && !ev.Meta {
				return errCaptureAborted
			}
			if _, err := sess.KeyEvent(ev); err != nil {
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}
			return nil
		}
	}
}

func confirm(keys *termkeys.Reader) (bool, error) {
	for {
		evs, err := keys.Next()
		if err != nil {
			return false, err
		}
		for _, ev := range evs {
			if ev.Key == "Escape" {
				return false, errCaptureAborted
			}
			return strings.EqualFold(ev.Key, "y") && !ev.Ctrl && !ev.Alt && !ev.Meta, nil
		}
	}
}

// crlfWriter adds the carriage returns a raw-mode terminal no longer inserts.
type crlfWriter struct{ w io.Writer }

func (c crlfWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\n", "\r\n")
	if _, err := io.WriteString(c.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}
