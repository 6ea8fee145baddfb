package session

import (
	"sync"

	"github.com/Alia5/micropad/protocol"
)

const subscriberBuffer = 64

type hub struct {
	mu     sync.Mutex
	subs   map[chan protocol.Response]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: map[chan protocol.Response]struct{}{}}
}

func (h *hub) subscribe() (<-chan protocol.Response, func()) {
	ch := make(chan protocol.Response, subscriberBuffer)
	h.mu.Lock()
	if h.closed {
		close(ch)
		h.mu.Unlock()
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
}

func (h *hub) publish(r protocol.Response) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- r:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
		delete(h.subs, ch)
	}
}
