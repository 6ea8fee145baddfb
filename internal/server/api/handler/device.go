package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/protocol"
	"github.com/Alia5/micropad/session"
)

func commandLines(cmds []protocol.Command) apitypes.CommandsResponse {
	out := apitypes.CommandsResponse{Commands: make([]string, 0, len(cmds))}
	for _, c := range cmds {
		out.Commands = append(out.Commands, c.Line)
	}
	return out
}

// DevicePush sends a profile to the device. Payload (optional):
// apitypes.PushRequest; the active profile is used when none is named.
func DevicePush(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		var body apitypes.PushRequest
		if strings.TrimSpace(req.Payload) != "" {
			if err := json.Unmarshal([]byte(req.Payload), &body); err != nil {
				return api.ErrBadRequest(fmt.Sprintf("invalid payload: %v", err))
			}
		}
		if body.Profile == "" {
			body.Profile = sess.Active()
		}
		cmds, err := sess.Push(req.Ctx, body.Profile, body.Bulk, body.Save)
		if err != nil {
			return err
		}
		return writeJSON(res, commandLines(cmds))
	}
}

// DeviceSave asks the device to persist its mapping.
func DeviceSave(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		cmd, err := sess.SaveDevice(req.Ctx)
		if err != nil {
			return err
		}
		return writeJSON(res, commandLines([]protocol.Command{cmd}))
	}
}

// DeviceQuery reads the device's current mapping.
func DeviceQuery(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		rows, err := sess.Query(req.Ctx)
		if err != nil {
			return err
		}
		return writeJSON(res, apitypes.QueryResponse{Rows: rows})
	}
}

// DeviceExecute fires the combo stored at a position. Payload: the position.
func DeviceExecute(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		pos, err := parsePosition(sess, req.Payload)
		if err != nil {
			return err
		}
		cmd, err := sess.Execute(req.Ctx, pos)
		if err != nil {
			return err
		}
		return writeJSON(res, commandLines([]protocol.Command{cmd}))
	}
}
