// Package link carries protocol commands to a Micropad over a serial port
// and reads its replies.
package link

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/micropad/internal/log"
	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/protocol"
)

var (
	// ErrTransportFailure reports a failed write or read on the device link.
	ErrTransportFailure = errors.New("transport failure")
	// ErrNotConnected is returned when no device link is open.
	ErrNotConnected = errors.New("device not connected")
)

// DefaultDelay separates consecutive commands sent by SendAll.
const DefaultDelay = 50 * time.Millisecond

// Options configures a Link.
type Options struct {
	Grid   keymap.Grid
	Delay  time.Duration
	Logger *slog.Logger
	Raw    log.RawLogger
}

// Link is an open device connection. Writes are serialized; a single
// background reader delivers decoded lines to Listen.
type Link struct {
	rwc    io.ReadWriteCloser
	dec    *protocol.Decoder
	delay  time.Duration
	logger *slog.Logger
	raw    log.RawLogger

	wmu       sync.Mutex
	readOnce  sync.Once
	lines     chan string
	readErr   error
	closeOnce sync.Once
	done      chan struct{}
}

// New wraps an already open connection.
func New(rwc io.ReadWriteCloser, o Options) *Link {
	if o.Grid.Size() == 0 {
		o.Grid = keymap.DefaultGrid
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Raw == nil {
		o.Raw = log.NewRaw(nil)
	}
	return &Link{
		rwc:    rwc,
		dec:    protocol.NewDecoder(o.Grid),
		delay:  o.Delay,
		logger: o.Logger,
		raw:    o.Raw,
		lines:  make(chan string, 32),
		done:   make(chan struct{}),
	}
}

func (l *Link) closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Send writes one command. It does not wait for a reply.
func (l *Link) Send(ctx context.Context, cmd protocol.Command) error {
	if l == nil || l.closed() {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b := cmd.Bytes()
	l.wmu.Lock()
	defer l.wmu.Unlock()
	l.raw.Log(false, b)
	if _, err := l.rwc.Write(b); err != nil {
		return fmt.Errorf("%w: write %q: %v", ErrTransportFailure, cmd.Line, err)
	}
	l.logger.Debug("sent command", "kind", cmd.Kind, "line", cmd.Line)
	return nil
}

// SendAll writes cmds in order, pausing the configured delay between them.
// It stops at the first failure; earlier commands are not rolled back.
func (l *Link) SendAll(ctx context.Context, cmds []protocol.Command) error {
	for i, cmd := range cmds {
		if i > 0 && l != nil && l.delay > 0 {
			t := time.NewTimer(l.delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		if err := l.Send(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// Listen decodes incoming lines and hands them to fn until ctx is done or
// the connection fails. Only one Listen should run at a time.
func (l *Link) Listen(ctx context.Context, fn func(protocol.Response)) error {
	if l == nil || l.closed() {
		return ErrNotConnected
	}
	l.readOnce.Do(func() { go l.readLoop() })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-l.lines:
			if !ok {
				if l.readErr != nil {
					return l.readErr
				}
				return ErrNotConnected
			}
			fn(l.dec.DecodeResponse(line))
		}
	}
}

// readLoop splits the byte stream on '\n'. Zero-length reads are what a
// serial port returns on read timeout and are skipped.
func (l *Link) readLoop() {
	defer close(l.lines)
	buf := make([]byte, 256)
	var pending []byte
	for {
		n, err := l.rwc.Read(buf)
		if n > 0 {
			l.raw.Log(true, buf[:n])
			pending = append(pending, buf[:n]...)
			for {
				i := bytes.IndexByte(pending, '\n')
				if i < 0 {
					break
				}
				line := string(bytes.TrimRight(pending[:i], "\r"))
				pending = pending[i+1:]
				select {
				case l.lines <- line:
				case <-l.done:
					return
				}
			}
		}
		if err != nil {
			if !l.closed() && !errors.Is(err, io.EOF) {
				l.readErr = fmt.Errorf("%w: read: %v", ErrTransportFailure, err)
				l.logger.Error("device read failed", "error", err)
			}
			return
		}
	}
}

// Close releases the connection. It is safe to call more than once.
func (l *Link) Close() error {
	if l == nil {
		return nil
	}
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.rwc.Close()
	})
	return err
}
