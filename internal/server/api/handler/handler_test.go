package handler_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/micropad/apiclient"
	"github.com/Alia5/micropad/apitypes"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/internal/server/api/handler"
	handlerTest "github.com/Alia5/micropad/internal/testing"
	"github.com/Alia5/micropad/session"
)

const emptyRows = `[["","",""],["","",""],["","",""]]`

// call is one request against a server with every route registered.
type call struct {
	path    string
	payload any
	params  map[string]string
}

func startServer(t *testing.T) (*apiclient.Transport, *session.Session, func()) {
	t.Helper()
	addr, sess, done := handlerTest.StartAPIServer(t, func(r *api.Router, s *session.Session, apiSrv *api.Server) {
		handler.Register(r, s, "test")
	})
	return apiclient.NewTransport(addr), sess, done
}

func do(t *testing.T, c *apiclient.Transport, in call) string {
	t.Helper()
	line, err := c.Do(in.path, in.payload, in.params)
	require.NoError(t, err)
	return line
}

// assertProblem checks that line is a problem object with the given status.
func assertProblem(t *testing.T, line string, status int) {
	t.Helper()
	var p apitypes.ApiError
	require.NoError(t, json.Unmarshal([]byte(line), &p), line)
	assert.Equal(t, status, p.Status, line)
	assert.NotEmpty(t, p.Detail)
}

func TestPing(t *testing.T) {
	c, sess, done := startServer(t)
	defer done()

	assert.JSONEq(t, `{"server":"micropad","version":"test","connected":false}`, do(t, c, call{path: "ping"}))

	handlerTest.AttachFakeDevice(t, sess)
	assert.JSONEq(t, `{"server":"micropad","version":"test","connected":true}`, do(t, c, call{path: "ping"}))
}

func TestUnknownPath(t *testing.T) {
	c, _, done := startServer(t)
	defer done()
	assertProblem(t, do(t, c, call{path: "profile/nope"}), 404)
}
