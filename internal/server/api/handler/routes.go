package handler

import (
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/session"
)

// Register wires every control API route for sess.
func Register(r *api.Router, sess *session.Session, version string) {
	r.Register("ping", Ping(sess, version))

	r.Register("profile/list", ProfileList(sess))
	r.Register("profile/activate", ProfileActivate(sess))
	r.Register("profile/{id}/get", ProfileGet(sess))
	r.Register("profile/{id}/assign", ProfileAssign(sess))
	r.Register("profile/{id}/clear", ProfileClear(sess))
	r.Register("profile/{id}/swap", ProfileSwap(sess))
	r.Register("profile/{id}/preset", ProfilePreset(sess))

	r.Register("selection/get", SelectionGet(sess))
	r.Register("selection/select", SelectionSelect(sess))
	r.Register("selection/key", SelectionKey(sess))
	r.Register("selection/submit", SelectionSubmit(sess))
	r.Register("selection/commit", SelectionCommit(sess))
	r.Register("selection/cancel", SelectionCancel(sess))

	r.Register("store/save", StoreSave(sess))
	r.Register("store/reload", StoreReload(sess))

	r.Register("device/push", DevicePush(sess))
	r.Register("device/save", DeviceSave(sess))
	r.Register("device/query", DeviceQuery(sess))
	r.Register("device/execute", DeviceExecute(sess))

	r.RegisterStream("device/events", DeviceEvents(sess))
}
