package bus

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/topic"
)

// Bus routes messages to the listeners registered on their topic.
// All methods are safe for concurrent use. Dispatch is synchronous.
type Bus struct {
	registry *registry
	logger   *slog.Logger
	config   config

	published  atomic.Uint64
	unrouted   atomic.Uint64
	delivered  atomic.Uint64
	failed     atomic.Uint64
	panicked   atomic.Uint64
	deliveryNs atomic.Int64
}

// Stats contains bus statistics.
type Stats struct {
	// Published is the number of Publish calls.
	Published uint64

	// Unrouted is the number of publishes that found no listeners.
	Unrouted uint64

	// Delivered is the number of listener invocations that succeeded.
	Delivered uint64

	// Failed is the number of listener invocations that returned an error.
	Failed uint64

	// Panicked is the number of listener invocations that panicked.
	Panicked uint64

	// AvgDeliveryTimeNs is the average listener execution time.
	AvgDeliveryTimeNs int64

	// ActiveListeners is the current number of registrations.
	ActiveListeners int
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Bus{
		registry: newRegistry(),
		logger:   cfg.logger,
		config:   cfg,
	}
}

// Subscribe appends l to the listeners of t. Registering the same listener
// twice creates two registrations.
func (b *Bus) Subscribe(t topic.Topic, l Listener) *Subscription {
	sub := newSubscription(uuid.NewString(), t, b)
	b.registry.add(&entry{
		sub:      sub,
		listener: l,
		identity: identityOf(l),
	})

	b.logger.Debug("Subscribing", "topic", t, "subscription", sub.id)
	return sub
}

// SubscribeFunc is a convenience method for subscribing a function.
func (b *Bus) SubscribeFunc(t topic.Topic, fn ListenerFunc) *Subscription {
	return b.Subscribe(t, fn)
}

// Unsubscribe removes the first registration of l on t, keeping the order
// of the rest. It returns false if no registration matched.
func (b *Bus) Unsubscribe(t topic.Topic, l Listener) bool {
	e := b.registry.removeFirst(t, identityOf(l))
	if e == nil {
		b.logger.Debug("Did not find listener in topic to unsubscribe", "topic", t)
		return false
	}

	e.sub.deactivate()
	b.logger.Debug("Unsubscribing", "topic", t, "subscription", e.sub.id)
	return true
}

// UnsubscribeAll removes every listener of the given topics, or of all
// topics when called without arguments.
func (b *Bus) UnsubscribeAll(topics ...topic.Topic) {
	removed := b.registry.clear(topics...)
	for _, e := range removed {
		e.sub.deactivate()
	}

	b.logger.Debug("Unsubscribing all", "topics", topics, "removed", len(removed))
}

// ListenerCount returns the number of registrations on t.
func (b *Bus) ListenerCount(t topic.Topic) int {
	return b.registry.count(t)
}

// TotalListenerCount returns the number of registrations across all topics.
func (b *Bus) TotalListenerCount() int {
	return b.registry.total()
}

// Topics returns the topics that currently have listeners, in the order
// they were first registered.
func (b *Bus) Topics() []topic.Topic {
	return b.registry.topics()
}

// Publish delivers msg to every listener of t, in registration order, on the
// calling goroutine. The listener set is fixed when Publish starts, so
// listeners may subscribe, unsubscribe or publish without affecting the
// current dispatch. A failing listener is reported and does not stop the
// others.
func (b *Bus) Publish(t topic.Topic, msg message.Message) {
	b.published.Add(1)

	entries := b.registry.snapshot(t)
	if len(entries) == 0 {
		b.unrouted.Add(1)
		return
	}

	if b.config.dispatchLogging {
		b.logger.Debug("Publishing message",
			"topic", t,
			"message", messageID(msg),
			"listeners", len(entries),
		)
	}

	for _, e := range entries {
		res := invoke(e.listener, msg)
		b.deliveryNs.Add(res.duration.Nanoseconds())

		if res.err == nil {
			b.delivered.Add(1)
			continue
		}

		b.reportFailure(&ListenerError{
			SubscriptionID: e.sub.id,
			Topic:          t,
			MessageID:      messageID(msg),
			Err:            res.err,
			Panicked:       res.panicked,
			Value:          res.panicValue,
			Stack:          res.stack,
		})
	}
}

// reportFailure logs a listener failure, hands it to the error handler and
// publishes it on topic.ErrorSystem. Failures of ErrorSystem listeners are
// not republished.
func (b *Bus) reportFailure(lerr *ListenerError) {
	code := message.ErrorCodeListenerFailed
	if lerr.Panicked {
		b.panicked.Add(1)
		code = message.ErrorCodeListenerPanicked
		b.logger.Error("Listener panicked",
			"topic", lerr.Topic,
			"subscription", lerr.SubscriptionID,
			"message", lerr.MessageID,
			"panic", lerr.Value,
			"stack", string(lerr.Stack),
		)
	} else {
		b.failed.Add(1)
		b.logger.Warn("Listener returned an error",
			"topic", lerr.Topic,
			"subscription", lerr.SubscriptionID,
			"message", lerr.MessageID,
			"error", lerr.Err,
		)
	}

	if b.config.errorHandler != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("Error handler panicked", "panic", r)
				}
			}()
			b.config.errorHandler(lerr)
		}()
	}

	if b.config.failureReports && lerr.Topic != topic.ErrorSystem {
		b.Publish(topic.ErrorSystem, message.NewErrorSystemMessageWithData(code, lerr.Error()))
	}
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	delivered := b.delivered.Load()
	failed := b.failed.Load()
	panicked := b.panicked.Load()

	var avgNs int64
	if executed := delivered + failed + panicked; executed > 0 {
		avgNs = b.deliveryNs.Load() / int64(executed)
	}

	return Stats{
		Published:         b.published.Load(),
		Unrouted:          b.unrouted.Load(),
		Delivered:         delivered,
		Failed:            failed,
		Panicked:          panicked,
		AvgDeliveryTimeNs: avgNs,
		ActiveListeners:   b.registry.total(),
	}
}

// messageID returns the ID of msg, tolerating nil messages.
func messageID(msg message.Message) string {
	if msg == nil {
		return ""
	}
	return msg.ID()
}
