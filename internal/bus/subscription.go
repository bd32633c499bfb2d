package bus

import (
	"sync/atomic"

	"github.com/dshills/enginebus/internal/topic"
)

// Subscription is the handle for one registration of a listener.
// It removes exactly that registration, which matters when the same
// listener is registered more than once or is a closure.
type Subscription struct {
	id     string
	topic  topic.Topic
	bus    *Bus
	active atomic.Bool
}

func newSubscription(id string, t topic.Topic, b *Bus) *Subscription {
	s := &Subscription{
		id:    id,
		topic: t,
		bus:   b,
	}
	s.active.Store(true)
	return s
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() topic.Topic {
	return s.topic
}

// IsActive reports whether the registration is still present on the bus.
func (s *Subscription) IsActive() bool {
	return s.active.Load()
}

// Cancel removes this registration from the bus.
// It returns false if the registration was already removed.
func (s *Subscription) Cancel() bool {
	if !s.active.Swap(false) {
		return false
	}
	removed := s.bus.registry.removeSubscription(s)
	if removed {
		s.bus.logger.Debug("Unsubscribing", "topic", s.topic, "subscription", s.id)
	}
	return removed
}

// deactivate marks the subscription removed by another path.
func (s *Subscription) deactivate() {
	s.active.Store(false)
}
