package session

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mbenaiss/whatsapp-session/models"
)

// MessageHandler receives inbound messages, one at a time
type MessageHandler func(msg models.Message)

// dispatcher serializes inbound delivery: the transport pushes into a queue,
// a single goroutine pops in arrival order and calls the current handler.
type dispatcher struct {
	log      *slog.Logger
	queue    chan models.Message
	done     chan struct{}
	stopOnce sync.Once
	handler  atomic.Pointer[MessageHandler]
}

func newDispatcher(log *slog.Logger, buffer int) *dispatcher {
	if buffer < 0 {
		buffer = 0
	}
	return &dispatcher{
		log:   log,
		queue: make(chan models.Message, buffer),
		done:  make(chan struct{}),
	}
}

func (d *dispatcher) setHandler(h MessageHandler) {
	d.handler.Store(&h)
}

// enqueue blocks while the queue is full so the transport's event loop
// feels the backpressure instead of messages being reordered or lost.
func (d *dispatcher) enqueue(msg models.Message) {
	select {
	case <-d.done:
		d.log.Debug("Inbound message dropped, session closed", "id", msg.ID)
		return
	default:
	}

	select {
	case d.queue <- msg:
	case <-d.done:
		d.log.Debug("Inbound message dropped, session closed", "id", msg.ID)
	}
}

func (d *dispatcher) run() {
	for {
		select {
		case <-d.done:
			d.log.Debug("Stopping inbound dispatcher")
			return
		case msg := <-d.queue:
			d.deliver(msg)
		}
	}
}

func (d *dispatcher) deliver(msg models.Message) {
	h := d.handler.Load()
	if h == nil {
		d.log.Debug("No inbound handler registered, message dropped", "id", msg.ID)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Inbound handler panicked", "id", msg.ID, "panic", r)
		}
	}()
	(*h)(msg)
}

// stop does not wait for run to return: a handler may itself close the session.
func (d *dispatcher) stop() {
	d.stopOnce.Do(func() { close(d.done) })
}
