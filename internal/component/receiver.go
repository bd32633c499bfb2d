package component

import (
	"errors"
	"sync"

	"github.com/dshills/enginebus/internal/bus"
	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/topic"
)

var (
	// ErrBusNotInitialized is returned when a Receiver is built before the
	// bus it should register on exists.
	ErrBusNotInitialized = errors.New("message bus not initialized")

	// ErrNilListener is returned when a Receiver is built without a listener.
	ErrNilListener = errors.New("listener cannot be nil")
)

// Receiver registers one listener on one topic of a shared bus and can
// publish back through it. It does not own the bus.
//
// The bus must be created before any Receiver; NewReceiver fails with
// ErrBusNotInitialized otherwise, so a missing subscription is never silent.
type Receiver struct {
	Base

	bus   *bus.Bus
	topic topic.Topic

	mu  sync.Mutex
	sub *bus.Subscription
}

// NewReceiver registers l on topic t of b.
func NewReceiver(b *bus.Bus, t topic.Topic, l bus.Listener) (*Receiver, error) {
	if b == nil {
		return nil, ErrBusNotInitialized
	}
	if l == nil {
		return nil, ErrNilListener
	}

	return &Receiver{
		bus:   b,
		topic: t,
		sub:   b.Subscribe(t, l),
	}, nil
}

// NewReceiverFunc registers fn on topic t of b.
func NewReceiverFunc(b *bus.Bus, t topic.Topic, fn bus.ListenerFunc) (*Receiver, error) {
	if fn == nil {
		return nil, ErrNilListener
	}
	return NewReceiver(b, t, fn)
}

// Topic returns the topic the receiver listens on.
func (r *Receiver) Topic() topic.Topic {
	return r.topic
}

// Subscribed reports whether the receiver's registration is still on the bus.
func (r *Receiver) Subscribed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub != nil && r.sub.IsActive()
}

// Publish forwards msg to the bus under t.
func (r *Receiver) Publish(t topic.Topic, msg message.Message) {
	r.bus.Publish(t, msg)
}

// Close removes the receiver's registration. It is safe to call more than
// once. Publish keeps working after Close.
func (r *Receiver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		r.sub.Cancel()
		r.sub = nil
	}
}
