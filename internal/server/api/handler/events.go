package handler

import (
	"encoding/json"
	"log/slog"
	"net"

	"github.com/Alia5/micropad/internal/log"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/session"
)

// DeviceEvents streams decoded device lines as JSON, one per line, until the
// client disconnects or the server shuts down.
func DeviceEvents(sess *session.Session) api.StreamHandlerFunc {
	return func(conn net.Conn, req *api.Request, logger *slog.Logger) error {
		defer conn.Close()
		events, unsubscribe := sess.Subscribe()
		defer unsubscribe()

		// a read returning means the client went away
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			buf := make([]byte, 64)
			for {
				if _, err := conn.Read(buf); err != nil {
					return
				}
			}
		}()

		enc := json.NewEncoder(conn)
		for {
			select {
			case <-req.Ctx.Done():
				return nil
			case <-gone:
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if err := enc.Encode(ev); err != nil {
					return err
				}
				logger.Log(req.Ctx, log.LevelTrace, "event streamed", "kind", ev.Kind)
			}
		}
	}
}
