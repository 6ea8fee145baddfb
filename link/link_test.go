package link_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Alia5/micropad/internal/log"
	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeLink(t *testing.T, delay time.Duration) (*link.Link, net.Conn) {
	t.Helper()
	host, device := net.Pipe()
	l := link.New(host, link.Options{Grid: keymap.DefaultGrid, Delay: delay})
	t.Cleanup(func() {
		_ = l.Close()
		_ = device.Close()
	})
	return l, device
}

func TestSendAllOrderAndDelay(t *testing.T) {
	l, device := newPipeLink(t, 20*time.Millisecond)

	type received struct {
		line string
		at   time.Time
	}
	var got []received
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r := bufio.NewReader(device)
		for range 3 {
			s, err := r.ReadString('\n')
			if err != nil {
				return
			}
			got = append(got, received{line: s, at: time.Now()})
		}
	}()

	cmds := []protocol.Command{
		{Kind: protocol.KindAssign, Line: "SETUP:0:Ctrl+C"},
		{Kind: protocol.KindAssign, Line: "SETUP:8:Delete"},
		{Kind: protocol.KindSave, Line: "SAVE"},
	}
	require.NoError(t, l.SendAll(t.Context(), cmds))
	wg.Wait()

	require.Len(t, got, 3)
	assert.Equal(t, "SETUP:0:Ctrl+C\n", got[0].line)
	assert.Equal(t, "SETUP:8:Delete\n", got[1].line)
	assert.Equal(t, "SAVE\n", got[2].line)
	assert.GreaterOrEqual(t, got[2].at.Sub(got[0].at), 30*time.Millisecond)
}

func TestSendAllHonorsCancel(t *testing.T) {
	l, device := newPipeLink(t, time.Hour)
	go func() {
		r := bufio.NewReader(device)
		_, _ = r.ReadString('\n')
	}()

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	err := l.SendAll(ctx, []protocol.Command{{Line: "A"}, {Line: "B"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestListenDecodesLines(t *testing.T) {
	l, device := newPipeLink(t, 0)

	go func() {
		_, _ = device.Write([]byte("OK\r\nKEYPRESS:4\nSTA"))
		_, _ = device.Write([]byte("TUS:ready\n"))
	}()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	var got []protocol.Response
	err := l.Listen(ctx, func(r protocol.Response) {
		got = append(got, r)
		if len(got) == 3 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 3)
	assert.Equal(t, protocol.ResponseAck, got[0].Kind)
	assert.Equal(t, protocol.ResponseKeyPress, got[1].Kind)
	assert.Equal(t, 4, got[1].Index)
	assert.Equal(t, protocol.ResponseStatus, got[2].Kind)
	assert.Equal(t, "ready", got[2].Text)
}

func TestListenEndsWhenDeviceGoes(t *testing.T) {
	l, device := newPipeLink(t, 0)
	go func() {
		_, _ = device.Write([]byte("OK\n"))
		_ = device.Close()
	}()
	n := 0
	err := l.Listen(t.Context(), func(protocol.Response) { n++ })
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestClosedLink(t *testing.T) {
	l, _ := newPipeLink(t, 0)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	assert.ErrorIs(t, l.Send(t.Context(), protocol.Command{Line: "SAVE"}), link.ErrNotConnected)
	assert.ErrorIs(t, l.Listen(t.Context(), func(protocol.Response) {}), link.ErrNotConnected)

	var nilLink *link.Link
	assert.ErrorIs(t, nilLink.Send(t.Context(), protocol.Command{Line: "SAVE"}), link.ErrNotConnected)
	assert.NoError(t, nilLink.Close())
}

type failingConn struct{ net.Conn }

func (failingConn) Write([]byte) (int, error) { return 0, errors.New("unplugged") }

func TestSendFailureIsTransportFailure(t *testing.T) {
	host, device := net.Pipe()
	defer device.Close()
	l := link.New(failingConn{host}, link.Options{})
	defer l.Close()

	err := l.Send(t.Context(), protocol.Command{Line: "SAVE"})
	assert.ErrorIs(t, err, link.ErrTransportFailure)
	assert.Contains(t, err.Error(), "unplugged")
}

func TestRawTraffic(t *testing.T) {
	var buf syncBuffer
	host, device := net.Pipe()
	l := link.New(host, link.Options{Raw: log.NewRaw(&buf)})
	defer l.Close()
	defer device.Close()

	go func() {
		r := bufio.NewReader(device)
		_, _ = r.ReadString('\n')
	}()
	require.NoError(t, l.Send(t.Context(), protocol.Command{Line: "GET_MAPPING"}))
	assert.True(t, strings.Contains(buf.String(), "H->D 12 bytes"))
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}
