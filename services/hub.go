package services

import (
	"log/slog"
	"sync"

	"github.com/mbenaiss/whatsapp-session/models"
)

// hub broadcasts inbound messages to in-process subscribers.
//
// Delivery is best effort: a subscriber whose buffer is full misses the
// message. The session keeps delivering to the others.
type hub struct {
	log    *slog.Logger
	buffer int

	mu     sync.Mutex
	nextID int
	subs   map[int]chan models.Message
	closed bool
}

func newHub(log *slog.Logger, buffer int) *hub {
	return &hub{log: log, buffer: buffer, subs: make(map[int]chan models.Message)}
}

// subscribe returns a channel of inbound messages and a func to release it.
// The channel is closed on release or when the hub shuts down.
func (h *hub) subscribe() (<-chan models.Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan models.Message, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
}

func (h *hub) publish(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- msg:
		default:
			h.log.Debug("Subscriber lagging, message dropped", "subscriber", id, "message", msg.ID)
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
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
