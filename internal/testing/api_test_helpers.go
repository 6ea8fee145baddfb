// Package testing provides helpers shared by API and command tests.
package testing

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/Alia5/micropad/internal/server/api"
	"github.com/Alia5/micropad/internal/storage"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/session"
)

// NewSession returns a session over an in-memory SQLite backend.
func NewSession(t *testing.T) *session.Session {
	t.Helper()
	b, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open storage failed: %v", err)
	}
	sess, err := session.New(b, session.Options{Logger: slog.Default()})
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}
	return sess
}

// StartAPIServer starts an API server on a free port and calls register to allow
// the caller to register the handlers needed for the test. Returns the address
// and a function to call when done.
func StartAPIServer(t *testing.T, register func(r *api.Router, sess *session.Session, apiSrv *api.Server)) (addr string, sess *session.Session, done func()) {
	t.Helper()
	sess = NewSession(t)

	apiSrv := api.New(sess, "127.0.0.1:0", api.ServerConfig{RequestTimeout: 2 * time.Second}, slog.Default())
	if register != nil {
		register(apiSrv.Router(), sess, apiSrv)
	}
	if err := apiSrv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}

	done = func() {
		apiSrv.Close()
		_ = sess.Close()
	}
	return apiSrv.Addr(), sess, done
}

// ExecCmd dials the API server, sends cmd and reads the full response.
// The command should not include a trailing newline. Returns the response
// without the trailing newline.
func ExecCmd(t *testing.T, addr string, cmd string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()

	_, _ = fmt.Fprintf(c, "%s\x00", cmd)

	r := bufio.NewReader(c)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}

	result := strings.TrimSuffix(line, "\n")
	result = strings.TrimSuffix(result, "\r")
	return result
}

// FakeDevice is the device end of an in-memory link. It records every
// command line and answers GET_MAPPING with Dump.
type FakeDevice struct {
	Conn  net.Conn
	Dump  string
	lines chan string
}

// AttachFakeDevice connects sess to a FakeDevice over net.Pipe.
func AttachFakeDevice(t *testing.T, sess *session.Session) *FakeDevice {
	t.Helper()
	host, dev := net.Pipe()
	d := &FakeDevice{Conn: dev, Dump: "Ctrl+C,,|,,|,,Delete", lines: make(chan string, 64)}
	go func() {
		defer close(d.lines)
		r := bufio.NewReader(dev)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSuffix(line, "\n")
			d.lines <- line
			if line == "GET_MAPPING" {
				go func() { _, _ = dev.Write([]byte(d.Dump + "\r\n")) }()
			}
		}
	}()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = dev.Close()
	})
	sess.Attach(ctx, link.New(host, link.Options{Grid: sess.Grid(), Delay: time.Millisecond}))
	return d
}

// Next returns the next command line the device received.
func (d *FakeDevice) Next(t *testing.T) string {
	t.Helper()
	select {
	case l, ok := <-d.lines:
		if !ok {
			t.Fatal("device connection closed")
		}
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("device received nothing")
		return ""
	}
}

// Emit writes a line from the device to the host.
func (d *FakeDevice) Emit(t *testing.T, line string) {
	t.Helper()
	if _, err := d.Conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("device write failed: %v", err)
	}
}
