package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alia5/micropad/keymap"
	"github.com/Alia5/micropad/link"
	"github.com/Alia5/micropad/protocol"
)

// Attach makes l the device link and starts reading from it. Decoded lines
// are published to subscribers until ctx is done or the link fails; the
// link is closed then. A previously attached link is closed.
func (s *Session) Attach(ctx context.Context, l *link.Link) {
	done := make(chan struct{})
	s.mu.Lock()
	prev := s.link
	s.link = l
	s.linkDone = done
	s.ctrl.SetSink(l)
	s.mu.Unlock()
	if prev != nil && prev != l {
		_ = prev.Close()
	}

	go func() {
		err := l.Listen(ctx, func(r protocol.Response) {
			switch r.Kind {
			case protocol.ResponseKeyPress:
				s.logger.Debug("device key pressed", "index", r.Index)
			case protocol.ResponseError:
				s.logger.Warn("device reported an error", "detail", r.Text)
			case protocol.ResponseOpaque:
				s.logger.Debug("unrecognized device line", "line", r.Raw)
			}
			s.hub.publish(r)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("device link closed", "error", err)
		}
		s.mu.Lock()
		if s.link == l {
			s.link = nil
			s.linkDone = nil
			s.ctrl.SetSink(nil)
		}
		s.mu.Unlock()
		_ = l.Close()
		close(done)
	}()
}

// Detach closes the device link, if any.
func (s *Session) Detach() {
	s.mu.Lock()
	l := s.link
	s.link = nil
	s.linkDone = nil
	s.ctrl.SetSink(nil)
	s.mu.Unlock()
	if l != nil {
		_ = l.Close()
	}
}

// Connected reports whether a device link is attached.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.link != nil
}

func (s *Session) linkLocked() (*link.Link, error) {
	if s.link == nil {
		return nil, link.ErrNotConnected
	}
	return s.link, nil
}

// Push sends profile id to the device, either as one assignment per
// occupied key or as a single bulk SETUP. With save, a SAVE follows.
func (s *Session) Push(ctx context.Context, id string, bulk, save bool) ([]protocol.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.linkLocked()
	if err != nil {
		return nil, err
	}
	cmds, err := s.encodeProfileLocked(id, bulk)
	if err != nil {
		return nil, err
	}
	if save {
		cmds = append(cmds, s.enc.EncodeSave())
	}
	if err := l.SendAll(ctx, cmds); err != nil {
		return cmds, err
	}
	s.logger.Info("profile pushed", "profile", id, "commands", len(cmds), "bulk", bulk, "save", save)
	return cmds, nil
}

// EncodeProfile returns the commands Push would send, without sending.
func (s *Session) EncodeProfile(id string, bulk bool) ([]protocol.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encodeProfileLocked(id, bulk)
}

func (s *Session) encodeProfileLocked(id string, bulk bool) ([]protocol.Command, error) {
	if bulk {
		rows, err := s.store.Rows(id)
		if err != nil {
			return nil, err
		}
		cmd, err := s.enc.EncodeBulk(rows)
		if err != nil {
			return nil, err
		}
		return []protocol.Command{cmd}, nil
	}
	p, err := s.store.Profile(id)
	if err != nil {
		return nil, err
	}
	return s.enc.EncodeFullProfile(p)
}

// SaveDevice asks the device to persist its mapping.
func (s *Session) SaveDevice(ctx context.Context) (protocol.Command, error) {
	return s.sendOne(ctx, s.enc.EncodeSave())
}

// Execute asks the device to fire the combo stored at pos.
func (s *Session) Execute(ctx context.Context, pos keymap.Position) (protocol.Command, error) {
	cmd, err := s.enc.EncodeExecute(pos)
	if err != nil {
		return protocol.Command{}, err
	}
	return s.sendOne(ctx, cmd)
}

func (s *Session) sendOne(ctx context.Context, cmd protocol.Command) (protocol.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.linkLocked()
	if err != nil {
		return cmd, err
	}
	return cmd, l.Send(ctx, cmd)
}

// Query sends GET_MAPPING and waits for the device's mapping dump. Lines
// that arrive meanwhile still reach every subscriber. Losing the link while
// waiting yields link.ErrNotConnected.
func (s *Session) Query(ctx context.Context) ([][]string, error) {
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.mu.Lock()
	done := s.linkDone
	s.mu.Unlock()
	if _, err := s.sendOne(ctx, s.enc.EncodeQuery()); err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for mapping: %w", ctx.Err())
		case <-done:
			return nil, link.ErrNotConnected
		case r, ok := <-events:
			if !ok {
				return nil, link.ErrNotConnected
			}
			switch r.Kind {
			case protocol.ResponseMappingDump:
				return r.Grid, nil
			case protocol.ResponseError:
				return nil, fmt.Errorf("%w: device error: %s", link.ErrTransportFailure, r.Text)
			}
		}
	}
}

// Subscribe returns a channel of decoded device lines. Slow subscribers
// lose lines rather than stall the read loop.
func (s *Session) Subscribe() (<-chan protocol.Response, func()) {
	return s.hub.subscribe()
}
