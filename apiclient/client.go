package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apitypes "github.com/Alia5/micropad/apitypes"
)

// Client provides a high-level interface to the Micropad control API, handling
// request formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the API server.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

func do[T any](ctx context.Context, c *Client, path string, payload any, params map[string]string) (*T, error) {
	raw, err := c.transport.DoCtx(ctx, path, payload, params)
	if err != nil {
		return nil, err
	}
	return parse[T](raw)
}

func profileParams(id string) map[string]string { return map[string]string{"id": id} }

// Ping returns the identity of the server and whether a device is attached.
func (c *Client) Ping(ctx context.Context) (*apitypes.PingResponse, error) {
	return do[apitypes.PingResponse](ctx, c, "ping", nil, nil)
}

// Profiles lists every profile.
func (c *Client) Profiles(ctx context.Context) (*apitypes.ProfileListResponse, error) {
	return do[apitypes.ProfileListResponse](ctx, c, "profile/list", nil, nil)
}

// Activate switches the edited profile.
func (c *Client) Activate(ctx context.Context, id string) (*apitypes.Profile, error) {
	return do[apitypes.Profile](ctx, c, "profile/activate", id, nil)
}

func (c *Client) Profile(ctx context.Context, id string) (*apitypes.Profile, error) {
	return do[apitypes.Profile](ctx, c, "profile/{id}/get", nil, profileParams(id))
}

// Assign sets the key at position ("row,col" or flat index) to combo.
func (c *Client) Assign(ctx context.Context, id, position, combo string) (*apitypes.Profile, error) {
	req := apitypes.AssignRequest{Position: position, Combo: combo}
	return do[apitypes.Profile](ctx, c, "profile/{id}/assign", req, profileParams(id))
}

func (c *Client) Clear(ctx context.Context, id, position string) (*apitypes.Profile, error) {
	return do[apitypes.Profile](ctx, c, "profile/{id}/clear", position, profileParams(id))
}

func (c *Client) Swap(ctx context.Context, id, a, b string) (*apitypes.Profile, error) {
	req := apitypes.SwapRequest{A: a, B: b}
	return do[apitypes.Profile](ctx, c, "profile/{id}/swap", req, profileParams(id))
}

// ApplyPreset replaces a profile with a built-in preset.
func (c *Client) ApplyPreset(ctx context.Context, id, name string) (*apitypes.Profile, error) {
	return do[apitypes.Profile](ctx, c, "profile/{id}/preset", name, profileParams(id))
}

func (c *Client) Selection(ctx context.Context) (*apitypes.Selection, error) {
	return do[apitypes.Selection](ctx, c, "selection/get", nil, nil)
}

// Select starts capturing a shortcut for a key of the active profile.
func (c *Client) Select(ctx context.Context, position string) (*apitypes.Selection, error) {
	return do[apitypes.Selection](ctx, c, "selection/select", position, nil)
}

// KeyEvent feeds a raw key press to the capture.
func (c *Client) KeyEvent(ctx context.Context, ev apitypes.KeyEvent) (*apitypes.Selection, error) {
	return do[apitypes.Selection](ctx, c, "selection/key", ev, nil)
}

// Submit feeds typed shortcut text to the capture.
func (c *Client) Submit(ctx context.Context, value string) (*apitypes.Selection, error) {
	return do[apitypes.Selection](ctx, c, "selection/submit", value, nil)
}

// Commit stores the captured shortcut and sends it to the device if attached.
func (c *Client) Commit(ctx context.Context) (*apitypes.CommitResponse, error) {
	return do[apitypes.CommitResponse](ctx, c, "selection/commit", nil, nil)
}

func (c *Client) Cancel(ctx context.Context) (*apitypes.Selection, error) {
	return do[apitypes.Selection](ctx, c, "selection/cancel", nil, nil)
}

// Save persists all profiles.
func (c *Client) Save(ctx context.Context) (*apitypes.SaveResponse, error) {
	return do[apitypes.SaveResponse](ctx, c, "store/save", nil, nil)
}

// Reload drops unsaved changes.
func (c *Client) Reload(ctx context.Context) (*apitypes.ReloadResponse, error) {
	return do[apitypes.ReloadResponse](ctx, c, "store/reload", nil, nil)
}

// Push sends a profile to the device.
func (c *Client) Push(ctx context.Context, req apitypes.PushRequest) (*apitypes.CommandsResponse, error) {
	return do[apitypes.CommandsResponse](ctx, c, "device/push", req, nil)
}

func (c *Client) SaveDevice(ctx context.Context) (*apitypes.CommandsResponse, error) {
	return do[apitypes.CommandsResponse](ctx, c, "device/save", nil, nil)
}

// Query reads the mapping the device currently holds.
func (c *Client) Query(ctx context.Context) (*apitypes.QueryResponse, error) {
	return do[apitypes.QueryResponse](ctx, c, "device/query", nil, nil)
}

func (c *Client) Execute(ctx context.Context, position string) (*apitypes.CommandsResponse, error) {
	return do[apitypes.CommandsResponse](ctx, c, "device/execute", position, nil)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
