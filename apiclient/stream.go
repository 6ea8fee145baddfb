package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	apitypes "github.com/Alia5/micropad/apitypes"
)

// EventStream is an open device/events connection.
type EventStream struct {
	conn net.Conn
	once sync.Once
}

// OpenEvents connects to the device event stream.
func (c *Client) OpenEvents(ctx context.Context) (*EventStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	d := &net.Dialer{Timeout: c.transport.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.transport.addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if _, err := conn.Write([]byte("device/events\x00")); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &EventStream{conn: conn}, nil
}

// StartReading decodes events in a background goroutine until ctx is done or
// the server closes the stream. Both channels are closed on exit; errCh
// carries the reason unless ctx ended the stream.
func (s *EventStream) StartReading(ctx context.Context, chSize int) (<-chan apitypes.DeviceEvent, <-chan error) {
	evCh := make(chan apitypes.DeviceEvent, chSize)
	errCh := make(chan error, 1)

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	go func() {
		defer close(evCh)
		defer close(errCh)
		sc := bufio.NewScanner(s.conn)
		for sc.Scan() {
			var ev apitypes.DeviceEvent
			if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
				errCh <- fmt.Errorf("decode: %w", err)
				return
			}
			select {
			case evCh <- ev:
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		if err := sc.Err(); err != nil {
			errCh <- err
		}
	}()
	return evCh, errCh
}

// Close ends the stream.
func (s *EventStream) Close() error {
	var err error
	s.once.Do(func() { err = s.conn.Close() })
	return err
}
