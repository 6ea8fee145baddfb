package apiclient_test

import (
	"context"
	"errors"
	"testing"

	apiclient "github.com/Alia5/micropad/apiclient"
	apitypes "github.com/Alia5/micropad/apitypes"

	"github.com/stretchr/testify/assert"
)

// testClient constructs a client backed by a simple in-memory responder.
// responses maps unfilled path patterns to raw JSON payloads.
// If err is non-nil, every request returns that error, simulating dial failures.
func testClient(responses map[string]string, err error) *apiclient.Client {
	return apiclient.WithTransport(apiclient.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		if err != nil {
			return "", err
		}
		if out, ok := responses[path]; ok {
			return out, nil
		}
		return "", nil
	}))
}

func TestHighLevelClient(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name       string
		setup      func(responses map[string]string) (err error)
		call       func(c *apiclient.Client) (any, error)
		wantErr    string
		assertFunc func(t *testing.T, got any)
	}{
		{
			name: "ping",
			setup: func(responses map[string]string) error {
				responses["ping"] = `{"server":"micropad","version":"dev","connected":true}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Ping(ctx) },
			assertFunc: func(t *testing.T, got any) {
				p := got.(*apitypes.PingResponse)
				assert.Equal(t, "micropad", p.Server)
				assert.True(t, p.Connected)
			},
		},
		{
			name: "profile list",
			setup: func(responses map[string]string) error {
				responses["profile/list"] = `{"active":"profile1","rows":3,"cols":3,"profiles":[{"id":"profile1","active":true,"assigned":1,"rows":[["Ctrl+C","",""],["","",""],["","",""]]}]}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Profiles(ctx) },
			assertFunc: func(t *testing.T, got any) {
				resp := got.(*apitypes.ProfileListResponse)
				assert.Equal(t, "profile1", resp.Active)
				assert.Len(t, resp.Profiles, 1)
				assert.Equal(t, "Ctrl+C", resp.Profiles[0].Rows[0][0])
			},
		},
		{
			name: "assign error structured",
			setup: func(responses map[string]string) error {
				responses["profile/{id}/assign"] = `{"status":400,"title":"Bad Request","detail":"invalid key combination: \"Ctrl+\""}`
				return nil
			},
			call:    func(c *apiclient.Client) (any, error) { return c.Assign(ctx, "profile1", "0,0", "Ctrl+") },
			wantErr: "400 Bad Request: invalid key combination",
		},
		{
			name: "commit",
			setup: func(responses map[string]string) error {
				responses["selection/commit"] = `{"command":"SETUP:4:Ctrl+S","sent":false,"selection":{"state":"idle","profile":"profile1"}}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Commit(ctx) },
			assertFunc: func(t *testing.T, got any) {
				resp := got.(*apitypes.CommitResponse)
				assert.Equal(t, "SETUP:4:Ctrl+S", resp.Command)
				assert.Equal(t, "idle", resp.Selection.State)
			},
		},
		{
			name: "device not connected",
			setup: func(responses map[string]string) error {
				responses["device/query"] = `{"status":503,"title":"Service Unavailable","detail":"device not connected"}`
				return nil
			},
			call:    func(c *apiclient.Client) (any, error) { return c.Query(ctx) },
			wantErr: "503 Service Unavailable",
		},
		{
			name:    "transport failure",
			setup:   func(responses map[string]string) error { return errors.New("dial fail") },
			call:    func(c *apiclient.Client) (any, error) { return c.Profiles(ctx) },
			wantErr: "dial fail",
		},
		{
			name:    "blank response error",
			setup:   func(responses map[string]string) error { return nil },
			call:    func(c *apiclient.Client) (any, error) { return c.Selection(ctx) },
			wantErr: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := map[string]string{}
			errInject := error(nil)
			if tt.setup != nil {
				if e := tt.setup(responses); e != nil {
					errInject = e
				}
			}
			c := testClient(responses, errInject)
			got, err := tt.call(c)
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			if tt.assertFunc != nil {
				tt.assertFunc(t, got)
			}
		})
	}
}

func TestApiErrorType(t *testing.T) {
	c := testClient(map[string]string{
		"profile/{id}/preset": `{"status":404,"title":"Not Found","detail":"unknown preset: \"nope\""}`,
	}, nil)
	_, err := c.ApplyPreset(context.Background(), "profile1", "nope")
	var apiErr *apitypes.ApiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestContextCancellation(t *testing.T) {
	c := apiclient.WithTransport(apiclient.NewTransport("127.0.0.1:9")) // address irrelevant due to early cancel
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Profiles(ctx)
	assert.Error(t, err)
}

func TestStrictJSONDecode(t *testing.T) {
	responses := map[string]string{}
	responses["store/save"] = `{"saved":true,"extra":true}` // extra field should cause decode error
	c := testClient(responses, nil)
	_, err := c.Save(context.Background())
	assert.ErrorContains(t, err, "decode:")
}
