package handler

import (
	"errors"
	"log/slog"

	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/session"
)

func SelectionGet(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		return writeJSON(res, toSelection(sess.Selection()))
	}
}

// SelectionSelect starts capturing for a key. Payload: the position.
func SelectionSelect(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		pos, err := parsePosition(sess, req.Payload)
		if err != nil {
			return err
		}
		snap, err := sess.Select(pos)
		if err != nil {
			return err
		}
		return writeJSON(res, toSelection(snap))
	}
}

// SelectionKey feeds a raw key event. Payload: apitypes.KeyEvent.
func SelectionKey(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		ev, err := decodePayload[apitypes.KeyEvent](req.Payload)
		if err != nil {
			return err
		}
		snap, err := sess.KeyEvent(combo.KeyEvent{
			Key:   ev.Key,
			Ctrl:  ev.Ctrl,
			Alt:   ev.Alt,
			Shift: ev.Shift,
			Meta:  ev.Meta,
			Held:  ev.Held,
		})
		if err != nil {
			return err
		}
		return writeJSON(res, toSelection(snap))
	}
}

// SelectionSubmit feeds a typed shortcut. Payload: the shortcut text.
func SelectionSubmit(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		snap, err := sess.Submit(req.Payload)
		if err != nil {
			return err
		}
		return writeJSON(res, toSelection(snap))
	}
}

// SelectionCommit stores the captured shortcut and sends it when a device is
// attached. A send failure is reported as an error even though the
// assignment was kept.
func SelectionCommit(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		connected := sess.Connected()
		cmd, err := sess.Commit(req.Ctx)
		if err != nil {
			if errors.Is(err, link.ErrTransportFailure) {
				logger.Warn("assignment kept but not delivered", "command", cmd.Line, "error", err)
			}
			return err
		}
		return writeJSON(res, apitypes.CommitResponse{
			Command:   cmd.Line,
			Sent:      connected,
			Selection: toSelection(sess.Selection()),
		})
	}
}

func SelectionCancel(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		return writeJSON(res, toSelection(sess.Cancel()))
	}
}
