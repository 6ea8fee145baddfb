package handler

import (
	"log/slog"

	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/session"
)

// Ping returns a handler that reports server identity and device state.
func Ping(sess *session.Session, version string) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		return writeJSON(res, apitypes.PingResponse{
			Server:    "micropad",
			Version:   version,
			Connected: sess.Connected(),
		})
	}
}
