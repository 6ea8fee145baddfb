package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/combo"
	handlerTest "github.com/Alia5/micropad/internal/testing"
	"github.com/Alia5/micropad/keymap"
)

func TestDeviceRoutesNeedDevice(t *testing.T) {
	tests := []struct {
		name string
		in   call
	}{
		{name: "push", in: call{path: "device/push"}},
		{name: "save", in: call{path: "device/save"}},
		{name: "query", in: call{path: "device/query"}},
		{name: "execute", in: call{path: "device/execute", payload: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, done := startServer(t)
			defer done()
			assertProblem(t, do(t, c, tt.in), 503)
		})
	}
}

func TestDevicePush(t *testing.T) {
	c, sess, done := startServer(t)
	defer done()
	dev := handlerTest.AttachFakeDevice(t, sess)

	assert.NoError(t, sess.Assign("profile1", keymap.Position{Row: 0, Col: 0}, combo.MustParse("Ctrl+C")))
	assert.NoError(t, sess.Assign("profile1", keymap.Position{Row: 2, Col: 2}, combo.MustParse("Delete")))

	line := do(t, c, call{path: "device/push", payload: apitypes.PushRequest{Save: true}})
	assert.JSONEq(t, `{"commands":["SETUP:0:Ctrl+C","SETUP:8:Delete","SAVE"]}`, line)
	assert.Equal(t, "SETUP:0:Ctrl+C", dev.Next(t))
	assert.Equal(t, "SETUP:8:Delete", dev.Next(t))
	assert.Equal(t, "SAVE", dev.Next(t))

	line = do(t, c, call{path: "device/push", payload: apitypes.PushRequest{Profile: "profile1", Bulk: true}})
	assert.JSONEq(t, `{"commands":["SETUP:[[\"Ctrl+C\",\"\",\"\"],[\"\",\"\",\"\"],[\"\",\"\",\"Delete\"]]"]}`, line)
	assert.Equal(t, `SETUP:[["Ctrl+C","",""],["","",""],["","","Delete"]]`, dev.Next(t))

	assertProblem(t, do(t, c, call{path: "device/push", payload: apitypes.PushRequest{Profile: "nope"}}), 400)
}

func TestDeviceCommands(t *testing.T) {
	c, sess, done := startServer(t)
	defer done()
	dev := handlerTest.AttachFakeDevice(t, sess)

	assert.JSONEq(t, `{"commands":["SAVE"]}`, do(t, c, call{path: "device/save"}))
	assert.Equal(t, "SAVE", dev.Next(t))

	assert.JSONEq(t, `{"commands":["EXECUTE,1,2"]}`, do(t, c, call{path: "device/execute", payload: "1,2"}))
	assert.Equal(t, "EXECUTE,1,2", dev.Next(t))

	assert.JSONEq(t, `{"rows":[["Ctrl+C","",""],["","",""],["","","Delete"]]}`, do(t, c, call{path: "device/query"}))
	assert.Equal(t, "GET_MAPPING", dev.Next(t))
}
