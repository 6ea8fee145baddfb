package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/micropad/apitypes"
	handlerTest "github.com/Alia5/micropad/internal/testing"
)

func TestSelectionFlow(t *testing.T) {
	tests := []struct {
		name       string
		calls      []call
		expected   string
		wantStatus int
	}{
		{
			name:     "idle",
			calls:    []call{{path: "selection/get"}},
			expected: `{"state":"idle","profile":"profile1"}`,
		},
		{
			name:     "select",
			calls:    []call{{path: "selection/select", payload: "1,2"}},
			expected: `{"state":"selecting","profile":"profile1","position":"1,2","index":5}`,
		},
		{
			name: "key event captures",
			calls: []call{
				{path: "selection/select", payload: "4"},
				{path: "selection/key", payload: apitypes.KeyEvent{Key: "m", Ctrl: true, Shift: true}},
			},
			expected: `{"state":"captured","profile":"profile1","position":"1,1","index":4,"candidate":"Ctrl+Shift+M"}`,
		},
		{
			name: "held keys",
			calls: []call{
				{path: "selection/select", payload: "0"},
				{path: "selection/key", payload: apitypes.KeyEvent{Key: "b", Held: []string{"a"}}},
			},
			wantStatus: 400,
		},
		{
			name: "submit",
			calls: []call{
				{path: "selection/select", payload: "0,0"},
				{path: "selection/submit", payload: "alt + tab"},
			},
			expected: `{"state":"captured","profile":"profile1","position":"0,0","index":0,"candidate":"Alt+Tab"}`,
		},
		{
			name:       "key without selection",
			calls:      []call{{path: "selection/key", payload: apitypes.KeyEvent{Key: "a"}}},
			wantStatus: 409,
		},
		{
			name:       "commit without selection",
			calls:      []call{{path: "selection/commit"}},
			wantStatus: 409,
		},
		{
			name: "commit without capture",
			calls: []call{
				{path: "selection/select", payload: "0"},
				{path: "selection/commit"},
			},
			wantStatus: 400,
		},
		{
			name: "commit offline",
			calls: []call{
				{path: "selection/select", payload: "4"},
				{path: "selection/submit", payload: "Ctrl+S"},
				{path: "selection/commit"},
			},
			expected: `{"command":"SETUP:4:Ctrl+S","sent":false,"selection":{"state":"idle","profile":"profile1"}}`,
		},
		{
			name: "cancel",
			calls: []call{
				{path: "selection/select", payload: "4"},
				{path: "selection/cancel"},
			},
			expected: `{"state":"idle","profile":"profile1"}`,
		},
		{
			name:       "select out of grid",
			calls:      []call{{path: "selection/select", payload: "9"}},
			wantStatus: 400,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, done := startServer(t)
			defer done()
			var line string
			for _, in := range tt.calls {
				line = do(t, c, in)
			}
			if tt.wantStatus != 0 {
				assertProblem(t, line, tt.wantStatus)
				return
			}
			assert.JSONEq(t, tt.expected, line)
		})
	}
}

func TestSelectionCommitSends(t *testing.T) {
	c, sess, done := startServer(t)
	defer done()
	dev := handlerTest.AttachFakeDevice(t, sess)

	do(t, c, call{path: "selection/select", payload: "2,0"})
	do(t, c, call{path: "selection/key", payload: apitypes.KeyEvent{Key: "F5"}})
	line := do(t, c, call{path: "selection/commit"})

	assert.JSONEq(t, `{"command":"SETUP:6:F5","sent":true,"selection":{"state":"idle","profile":"profile1"}}`, line)
	assert.Equal(t, "SETUP:6:F5", dev.Next(t))

	assert.JSONEq(t,
		`{"id":"profile1","active":true,"assigned":1,"rows":[["","",""],["","",""],["F5","",""]]}`,
		do(t, c, call{path: "profile/{id}/get", params: p1()}))
}
