package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/micropad/apiclient"
	"github.com/Alia5/micropad/internal/log"
	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/internal/storage"
	"github.com/Alia5/micropad/internal/termkeys"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/protocol"
)

var discard = slog.New(slog.DiscardHandler)

func testWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{
		Store:   storage.Config{Backend: "file", Path: t.TempDir()},
		Grid:    GridConfig{Rows: 3, Cols: 3},
		Dialect: "index",
	}
}

func rowsOf(t *testing.T, ws *Workspace, id string) [][]string {
	t.Helper()
	sess, err := ws.Open(discard)
	require.NoError(t, err)
	defer sess.Close()
	v, err := sess.Profile(id)
	require.NoError(t, err)
	return v.Rows
}

func TestEditCommandsPersist(t *testing.T) {
	ws := testWorkspace(t)
	var out bytes.Buffer

	require.NoError(t, (&Assign{Profile: "profile1", Position: "0,0", Combo: "ctrl + c"}).Run(ws, discard, &out))
	require.NoError(t, (&Assign{Profile: "profile1", Position: "8", Combo: "Del"}).Run(ws, discard, &out))
	assert.Equal(t, [][]string{{"Ctrl+C", "", ""}, {"", "", ""}, {"", "", "Delete"}}, rowsOf(t, ws, "profile1"))

	require.NoError(t, (&Swap{Profile: "profile1", A: "0", B: "1,1"}).Run(ws, discard, &out))
	assert.Equal(t, [][]string{{"", "", ""}, {"", "Ctrl+C", ""}, {"", "", "Delete"}}, rowsOf(t, ws, "profile1"))

	require.NoError(t, (&Clear{Profile: "profile1", Position: "2,2"}).Run(ws, discard, &out))
	assert.Equal(t, [][]string{{"", "", ""}, {"", "Ctrl+C", ""}, {"", "", ""}}, rowsOf(t, ws, "profile1"))

	require.NoError(t, (&Preset{Profile: "profile2", Name: "KiCad"}).Run(ws, discard, &out))
	assert.Equal(t, "M", rowsOf(t, ws, "profile2")[0][0])

	assert.Contains(t, out.String(), "profile1 0,0 = Ctrl+C")
	assert.Contains(t, out.String(), "profile1 0,0 <-> 1,1")
	assert.Contains(t, out.String(), "profile2 <- preset kicad")

	_, err := os.Stat(filepath.Join(ws.Store.Path, "micropadProfiles.json"))
	assert.NoError(t, err)
}

func TestEditCommandErrors(t *testing.T) {
	ws := testWorkspace(t)
	var out bytes.Buffer

	tests := []struct {
		name string
		run  func() error
	}{
		{name: "invalid combo", run: func() error {
			return (&Assign{Profile: "profile1", Position: "0", Combo: "Ctrl+Alt"}).Run(ws, discard, &out)
		}},
		{name: "outside grid", run: func() error {
			return (&Assign{Profile: "profile1", Position: "3,3", Combo: "A"}).Run(ws, discard, &out)
		}},
		{name: "unknown profile", run: func() error {
			return (&Clear{Profile: "profile9", Position: "0"}).Run(ws, discard, &out)
		}},
		{name: "unknown preset", run: func() error {
			return (&Preset{Profile: "profile1", Name: "gimp"}).Run(ws, discard, &out)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.run())
		})
	}
	assert.Equal(t, [][]string{{"", "", ""}, {"", "", ""}, {"", "", ""}}, rowsOf(t, ws, "profile1"))
}

func TestPresetList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&Preset{}).Run(testWorkspace(t), discard, &out))
	assert.Equal(t, "canva\nfusion360\nkicad\nvscode\nwarthunder\n", out.String())
}

func TestShow(t *testing.T) {
	ws := testWorkspace(t)
	require.NoError(t, (&Assign{Profile: "profile3", Position: "4", Combo: "Meta+Shift+S"}).Run(ws, discard, io.Discard))

	var out bytes.Buffer
	require.NoError(t, (&Show{Profile: "profile3", Platform: "macos"}).Run(ws, discard, &out))
	assert.Contains(t, out.String(), "profile3 (1/9 assigned)")
	assert.Contains(t, out.String(), "Shift + Cmd + S")
	assert.NotContains(t, out.String(), "profile1")

	out.Reset()
	require.NoError(t, (&Show{}).Run(ws, discard, &out))
	for _, id := range []string{"profile1", "profile2", "profile3", "profile4"} {
		assert.Contains(t, out.String(), id)
	}
}

func TestExport(t *testing.T) {
	ws := testWorkspace(t)
	require.NoError(t, (&Assign{Profile: "profile1", Position: "0", Combo: "F5"}).Run(ws, discard, io.Discard))

	tests := []struct {
		format string
		decode func(data []byte, v any) error
	}{
		{format: "json", decode: json.Unmarshal},
		{format: "yaml", decode: yaml.Unmarshal},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, (&ExportCmd{Format: tt.format}).Run(ws, discard, &out))
			var doc Export
			require.NoError(t, tt.decode(out.Bytes(), &doc))
			assert.Equal(t, "profile1", doc.Profile)
			assert.NotEmpty(t, doc.OS)
			assert.Equal(t, [][]string{{"F5", "", ""}, {"", "", ""}, {"", "", ""}}, doc.Mapping)
		})
	}

	t.Run("toml file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out", "profile.toml")
		require.NoError(t, (&ExportCmd{Format: "toml", Output: dest}).Run(ws, discard, io.Discard))
		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(data), `profile = "profile1"`)
		assert.Contains(t, string(data), `"F5"`)
	})
}

func TestComboInspect(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&ComboInspect{Combo: "shift + ctrl + a", Platform: "windows", JSON: true}).Run(&out))
	var info ComboInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "Ctrl+Shift+A", info.Canonical)
	assert.Equal(t, []string{"Ctrl", "Shift", "A"}, info.Tokens)
	assert.Equal(t, "Ctrl + Shift + A", info.Label)
	assert.Equal(t, "0x03", info.Modifiers)
	assert.Equal(t, "0x04", info.Usage)

	out.Reset()
	require.NoError(t, (&ComboInspect{Combo: "cmd+s", Platform: "macos"}).Run(&out))
	assert.Contains(t, out.String(), "canonical: Meta+S")
	assert.Contains(t, out.String(), "Cmd + S (macOS)")

	assert.Error(t, (&ComboInspect{Combo: "Ctrl+"}).Run(io.Discard))
}

func TestPorts(t *testing.T) {
	p := &Ports{list: func() ([]link.PortInfo, error) {
		return []link.PortInfo{{Name: "/dev/ttyACM0", USB: true, VID: "2E8A", PID: "000A", Product: "Micropad"}}, nil
	}}
	var out bytes.Buffer
	require.NoError(t, p.Run(discard, &out))
	assert.Contains(t, out.String(), "/dev/ttyACM0")
	assert.Contains(t, out.String(), "2E8A")

	p.JSON = true
	out.Reset()
	require.NoError(t, p.Run(discard, &out))
	assert.JSONEq(t, `[{"name":"/dev/ttyACM0","usb":true,"vid":"2E8A","pid":"000A","product":"Micropad"}]`, out.String())

	empty := &Ports{list: func() ([]link.PortInfo, error) { return nil, nil }}
	out.Reset()
	require.NoError(t, empty.Run(discard, &out))
	assert.Equal(t, "no serial ports found\n", out.String())
}

func TestPushDryRun(t *testing.T) {
	ws := testWorkspace(t)
	require.NoError(t, (&Preset{Profile: "profile1", Name: "warthunder"}).Run(ws, discard, io.Discard))

	var out bytes.Buffer
	require.NoError(t, (&Push{DryRun: true, Save: true}).Run(ws, discard, log.NewRaw(nil), &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "SETUP:0:G", lines[0])
	assert.Equal(t, "SETUP:8:Y", lines[8])
	assert.Equal(t, "SAVE", lines[9])

	ws.Dialect = "rowcol"
	out.Reset()
	require.NoError(t, (&Push{DryRun: true, Profile: "profile1"}).Run(ws, discard, log.NewRaw(nil), &out))
	assert.True(t, strings.HasPrefix(out.String(), "SET 0,0,G\n"))

	out.Reset()
	require.NoError(t, (&Push{DryRun: true, Bulk: true}).Run(ws, discard, log.NewRaw(nil), &out))
	assert.Equal(t, `SETUP:[["G","F","H"],["V","M","N"],["B","T","Y"]]`+"\n", out.String())
}

func TestDeviceCommandsNeedPort(t *testing.T) {
	err := (&SaveDevice{}).Run(testWorkspace(t), discard, log.NewRaw(nil), io.Discard)
	assert.ErrorIs(t, err, link.ErrNotConnected)
}

func TestMonitorDescribes(t *testing.T) {
	ws := testWorkspace(t)
	sess, err := ws.Open(discard)
	require.NoError(t, err)
	defer sess.Close()

	dec := protocol.NewDecoder(sess.Grid())
	events := make(chan protocol.Response, 8)
	for _, l := range []string{"KEYPRESS:5", "OK", "ERR:bad index", "STATUS:ready", "hello"} {
		events <- dec.DecodeResponse(l)
	}
	close(events)

	var out bytes.Buffer
	err = monitor(context.Background(), sess, events, false, &out)
	assert.ErrorIs(t, err, link.ErrNotConnected)
	assert.Equal(t, "key 5 (1,2) pressed\nok\ndevice error: bad index\nstatus: ready\nhello\n", out.String())
}

// chunkReader returns one chunk per Read, like a raw terminal does per key.
type chunkReader struct{ chunks []string }

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks = c.chunks[1:]
	return n, nil
}

func TestCapture(t *testing.T) {
	tests := []struct {
		name    string
		capture Capture
		keys    []string
		want    string
		wantErr error
	}{
		{
			name:    "typed text",
			capture: Capture{Profile: "profile2", Position: "1,1", Text: "alt + f4"},
			want:    "Alt+F4",
		},
		{
			name:    "keys confirmed",
			capture: Capture{Profile: "profile2", Position: "4"},
			// Ctrl+Up, then y
			keys: []string{"\x1b[1;5A", "y"},
			want: "Ctrl+Up",
		},
		{
			name:    "rejected then replaced",
			capture: Capture{Profile: "profile2", Position: "4"},
			// Ctrl+S, n, Alt+x, y
			keys: []string{"\x13", "n", "\x1bx", "y"},
			want: "Alt+X",
		},
		{
			name:    "no confirmation needed",
			capture: Capture{Profile: "profile2", Position: "4", Yes: true},
			keys:    []string{"\x1bOP"},
			want:    "F1",
		},
		{
			name:    "escape aborts",
			capture: Capture{Profile: "profile2", Position: "4"},
			keys:    []string{"\x1b"},
			wantErr: errCaptureAborted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := testWorkspace(t)
			sess, err := ws.Open(discard)
			require.NoError(t, err)

			var out bytes.Buffer
			keys := termkeys.NewReader(&chunkReader{chunks: tt.keys})
			err = tt.capture.capture(context.Background(), sess, keys, &out)
			require.NoError(t, sess.Close())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "", rowsOf(t, ws, "profile2")[1][1])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rowsOf(t, ws, "profile2")[1][1])
			assert.Contains(t, out.String(), "= "+tt.want)
		})
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		command string
		format  string
		want    []string
	}{
		{command: "serve", format: "json", want: []string{`"api"`, `"addr": "127.0.0.1:3243"`, `"store"`, `"backend": "file"`, `"baud": 115200`}},
		{command: "push", format: "yaml", want: []string{"grid:", "rows: 3", "bulk: false", "timeout: 10s"}},
		{command: "monitor", format: "toml", want: []string{"dialect = \"index\"", "[grid]"}},
	}
	for _, tt := range tests {
		t.Run(tt.command+"-"+tt.format, func(t *testing.T) {
			dest := filepath.Join(dir, tt.command+"."+tt.format)
			c := &ConfigInit{Command: tt.command, Format: tt.format, Output: dest}
			require.NoError(t, c.Run(discard))
			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(data), w)
			}
			assert.Error(t, c.Run(discard), "existing file without --force")
			c.Force = true
			assert.NoError(t, c.Run(discard))
		})
	}
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	_ = ln.Close()

	ws := testWorkspace(t)
	s := &Serve{ApiServerConfig: api.ServerConfig{Addr: addr, RequestTimeout: time.Second}}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.StartServer(ctx, ws, discard, log.NewRaw(nil)) }()

	c := apiclient.New(addr)
	var ping error
	for range 50 {
		if _, ping = c.Ping(context.Background()); ping == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, ping)

	_, err = c.Assign(context.Background(), "profile1", "0", "Ctrl+Z")
	require.NoError(t, err)
	_, err = c.Save(context.Background())
	require.NoError(t, err)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, "Ctrl+Z", rowsOf(t, ws, "profile1")[0][0])
}

func TestInstallServeArgs(t *testing.T) {
	i := &Install{Addr: "127.0.0.1:4000"}
	assert.Equal(t, []string{"serve", "--api.addr=127.0.0.1:4000"}, i.serveArgs())
	i.Port = "/dev/ttyACM0"
	assert.Equal(t, []string{"serve", "--api.addr=127.0.0.1:4000", "--port=/dev/ttyACM0"}, i.serveArgs())
}
