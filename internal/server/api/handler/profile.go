package handler

import (
	"log/slog"
	"strings"

	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/combo"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/session"
)

// ProfileList returns all profiles with their grids.
func ProfileList(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		views := sess.Profiles()
		out := apitypes.ProfileListResponse{
			Active:   sess.Active(),
			Rows:     sess.Grid().Rows,
			Cols:     sess.Grid().Cols,
			Profiles: make([]apitypes.Profile, 0, len(views)),
		}
		for _, v := range views {
			out.Profiles = append(out.Profiles, toProfile(v))
		}
		return writeJSON(res, out)
	}
}

// ProfileActivate switches the edited profile. Payload: the profile id.
func ProfileActivate(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		id := strings.TrimSpace(req.Payload)
		if id == "" {
			return api.ErrBadRequest("missing profile id")
		}
		if err := sess.Activate(id); err != nil {
			return api.ErrNotFound(err.Error())
		}
		v, err := sess.Profile(id)
		if err != nil {
			return err
		}
		return writeJSON(res, toProfile(v))
	}
}

// ProfileGet returns one profile.
func ProfileGet(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		v, err := sess.Profile(req.Params["id"])
		if err != nil {
			return api.ErrNotFound(err.Error())
		}
		return writeJSON(res, toProfile(v))
	}
}

// ProfileAssign sets one key. Payload: apitypes.AssignRequest.
func ProfileAssign(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		id := req.Params["id"]
		body, err := decodePayload[apitypes.AssignRequest](req.Payload)
		if err != nil {
			return err
		}
		pos, err := parsePosition(sess, body.Position)
		if err != nil {
			return err
		}
		c, err := combo.Parse(body.Combo)
		if err != nil {
			return err
		}
		if err := sess.Assign(id, pos, c); err != nil {
			return err
		}
		logger.Info("key assigned", "profile", id, "position", pos.String(), "combo", c.String())
		v, err := sess.Profile(id)
		if err != nil {
			return err
		}
		return writeJSON(res, toProfile(v))
	}
}

// ProfileClear unassigns one key. Payload: the position.
func ProfileClear(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		id := req.Params["id"]
		pos, err := parsePosition(sess, req.Payload)
		if err != nil {
			return err
		}
		if err := sess.Clear(id, pos); err != nil {
			return err
		}
		v, err := sess.Profile(id)
		if err != nil {
			return err
		}
		return writeJSON(res, toProfile(v))
	}
}

// ProfileSwap exchanges two keys. Payload: apitypes.SwapRequest.
func ProfileSwap(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		id := req.Params["id"]
		body, err := decodePayload[apitypes.SwapRequest](req.Payload)
		if err != nil {
			return err
		}
		a, err := parsePosition(sess, body.A)
		if err != nil {
			return err
		}
		b, err := parsePosition(sess, body.B)
		if err != nil {
			return err
		}
		if err := sess.Swap(id, a, b); err != nil {
			return err
		}
		v, err := sess.Profile(id)
		if err != nil {
			return err
		}
		return writeJSON(res, toProfile(v))
	}
}

// ProfilePreset replaces a profile with a built-in preset. Payload: the name.
func ProfilePreset(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		id := req.Params["id"]
		name := strings.ToLower(strings.TrimSpace(req.Payload))
		if name == "" {
			return api.ErrBadRequest("missing preset name")
		}
		if err := sess.ApplyPreset(id, name); err != nil {
			return err
		}
		v, err := sess.Profile(id)
		if err != nil {
			return err
		}
		return writeJSON(res, toProfile(v))
	}
}
