package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/micropad/internal/log"
	"github.com/Alia5/micropad/internal/render"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/protocol"
	"github.com/Alia5/micropad/session"
)

// DeviceFlags selects the serial port and how long to wait for answers.
type DeviceFlags struct {
	link.SerialConfig `embed:""`
	Timeout           time.Duration `help:"Overall timeout for the device exchange" default:"10s"`
}

// withDevice opens the workspace, attaches the serial port and runs fn with
// a context that ends on interrupt or after the timeout (0 means none).
func withDevice(ws *Workspace, f DeviceFlags, logger *slog.Logger, raw log.RawLogger, fn func(ctx context.Context, sess *session.Session) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	sess, err := ws.Open(logger)
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := ws.Attach(ctx, sess, f.SerialConfig, logger, raw); err != nil {
		return err
	}
	return fn(ctx, sess)
}

func printCommands(out io.Writer, cmds []protocol.Command) error {
	for _, c := range cmds {
		if _, err := fmt.Fprintln(out, c.Line); err != nil {
			return err
		}
	}
	return nil
}

type Push struct {
	DeviceFlags `embed:""`
	Profile     string `help:"Profile to send (default: first profile)" short:"p"`
	Bulk        bool   `help:"Send the whole grid as one SETUP:<json> command"`
	Save        bool   `help:"Ask the device to persist the mapping afterwards"`
	DryRun      bool   `help:"Print the commands without opening the port"`
}

// Run is called by Kong when the push command is executed.
func (p *Push) Run(ws *Workspace, logger *slog.Logger, rawLogger log.RawLogger, out io.Writer) error {
	if p.DryRun {
		sess, err := ws.Open(logger)
		if err != nil {
			return err
		}
		defer sess.Close()
		cmds, err := sess.EncodeProfile(profileOrActive(sess, p.Profile), p.Bulk)
		if err != nil {
			return err
		}
		if p.Save {
			cmds = append(cmds, sess.Encoder().EncodeSave())
		}
		return printCommands(out, cmds)
	}
	return withDevice(ws, p.DeviceFlags, logger, rawLogger, func(ctx context.Context, sess *session.Session) error {
		cmds, err := sess.Push(ctx, profileOrActive(sess, p.Profile), p.Bulk, p.Save)
		if err != nil {
			return err
		}
		return printCommands(out, cmds)
	})
}

type SaveDevice struct {
	DeviceFlags `embed:""`
}

// Run is called by Kong when the save-device command is executed.
func (s *SaveDevice) Run(ws *Workspace, logger *slog.Logger, rawLogger log.RawLogger, out io.Writer) error {
	return withDevice(ws, s.DeviceFlags, logger, rawLogger, func(ctx context.Context, sess *session.Session) error {
		cmd, err := sess.SaveDevice(ctx)
		if err != nil {
			return err
		}
		return printCommands(out, []protocol.Command{cmd})
	})
}

type Query struct {
	DeviceFlags `embed:""`
	JSON        bool `help:"Print the mapping as JSON"`
}

// Run is called by Kong when the query command is executed.
func (q *Query) Run(ws *Workspace, logger *slog.Logger, rawLogger log.RawLogger, out io.Writer) error {
	return withDevice(ws, q.DeviceFlags, logger, rawLogger, func(ctx context.Context, sess *session.Session) error {
		rows, err := sess.Query(ctx)
		if err != nil {
			return err
		}
		if q.JSON {
			return json.NewEncoder(out).Encode(rows)
		}
		_, err = fmt.Fprintln(out, render.Grid(rows, render.Options{Title: "device mapping " + q.Port, Icons: true}))
		return err
	})
}

type Execute struct {
	DeviceFlags `embed:""`
	Position    string `arg:"" help:"Key position: row,col or flat index"`
}

// Run is called by Kong when the execute command is executed.
func (e *Execute) Run(ws *Workspace, logger *slog.Logger, rawLogger log.RawLogger, out io.Writer) error {
	return withDevice(ws, e.DeviceFlags, logger, rawLogger, func(ctx context.Context, sess *session.Session) error {
		pos, err := sess.Grid().ParsePosition(e.Position)
		if err != nil {
			return err
		}
		cmd, err := sess.Execute(ctx, pos)
		if err != nil {
			return err
		}
		return printCommands(out, []protocol.Command{cmd})
	})
}

type Monitor struct {
	link.SerialConfig `embed:""`
	JSON              bool `help:"Print each line as JSON"`
}

// Run is called by Kong when the monitor command is executed.
func (m *Monitor) Run(ws *Workspace, logger *slog.Logger, rawLogger log.RawLogger, out io.Writer) error {
	f := DeviceFlags{SerialConfig: m.SerialConfig}
	return withDevice(ws, f, logger, rawLogger, func(ctx context.Context, sess *session.Session) error {
		events, unsubscribe := sess.Subscribe()
		defer unsubscribe()
		logger.Info("monitoring device, press Ctrl+C to stop", "port", m.Port)
		return monitor(ctx, sess, events, m.JSON, out)
	})
}

func monitor(ctx context.Context, sess *session.Session, events <-chan protocol.Response, asJSON bool, out io.Writer) error {
	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-events:
			if !ok {
				return link.ErrNotConnected
			}
			if asJSON {
				if err := enc.Encode(r); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintln(out, describe(sess, r)); err != nil {
				return err
			}
		}
	}
}

// describe formats a decoded device line for humans.
func describe(sess *session.Session, r protocol.Response) string {
	switch r.Kind {
	case protocol.ResponseKeyPress:
		pos, _ := r.Position(sess.Grid())
		return fmt.Sprintf("key %d (%s) pressed", r.Index, pos)
	case protocol.ResponseAck:
		return "ok"
	case protocol.ResponseError:
		if r.Text == "" {
			return "device error"
		}
		return "device error: " + r.Text
	case protocol.ResponseStatus:
		return "status: " + r.Text
	case protocol.ResponseMappingDump:
		return fmt.Sprintf("mapping: %v", r.Grid)
	}
	return r.Raw
}
