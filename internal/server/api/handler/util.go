package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/selection"
	"github.com/Alia5/micropad/session"
)

func writeJSON(res *api.Response, v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return api.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
	}
	res.JSON = string(out)
	return nil
}

func decodePayload[T any](payload string) (T, error) {
	var out T
	if strings.TrimSpace(payload) == "" {
		return out, api.ErrBadRequest("missing payload")
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, api.ErrBadRequest(fmt.Sprintf("invalid payload: %v", err))
	}
	return out, nil
}

func parsePosition(sess *session.Session, s string) (keymap.Position, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return keymap.Position{}, api.ErrBadRequest("missing position")
	}
	pos, err := sess.Grid().ParsePosition(s)
	if err != nil {
		return keymap.Position{}, api.ErrBadRequest(err.Error())
	}
	return pos, nil
}

func toProfile(v session.ProfileView) apitypes.Profile {
	return apitypes.Profile{ID: v.ID, Active: v.Active, Assigned: v.Assigned, Rows: v.Rows}
}

func toSelection(s selection.Snapshot) apitypes.Selection {
	return apitypes.Selection{
		State:     string(s.State),
		Profile:   s.Profile,
		Position:  s.Position,
		Index:     s.Index,
		Candidate: s.Candidate,
	}
}
