package handler

import (
	"log/slog"

	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/session"
)

// StoreSave persists all profiles.
func StoreSave(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		if err := sess.Save(); err != nil {
			return api.ErrInternal(err.Error())
		}
		return writeJSON(res, apitypes.SaveResponse{Saved: true})
	}
}

// StoreReload drops unsaved changes and reloads persisted profiles.
func StoreReload(sess *session.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := sess.Reload()
		if err != nil {
			return api.ErrInternal(err.Error())
		}
		return writeJSON(res, apitypes.ReloadResponse{Found: r.Found, Recovered: r.Recovered, Detail: r.Detail})
	}
}
