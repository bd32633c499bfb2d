// Package bus provides the engine's in-process publish/subscribe message bus.
//
// Subsystems publish messages under a topic; listeners registered on that
// topic are invoked synchronously, in registration order, on the publishing
// goroutine. The bus never copies payloads: every listener receives the same
// message value, so a change made by one listener is visible to the next.
//
// # Dispatch
//
// Publish snapshots the listener list under the bus lock and releases the
// lock before invoking listeners. A listener may therefore subscribe,
// unsubscribe or publish again; such changes apply to later publishes only.
//
// A listener that returns an error or panics is isolated: the failure is
// logged, passed to the ErrorHandler if one is set, and published as a
// message.ErrorSystemMessage on topic.ErrorSystem. The remaining listeners
// still run. Failures of ErrorSystem listeners are only logged.
//
// # Removal
//
// Unsubscribe removes the first registration of a listener. Pointer and other
// comparable listeners match by ==. Function listeners match when they are
// the same top-level function or the same func value: keep the ListenerFunc
// that was subscribed and pass it back. A fresh method value such as
// ListenerFunc(c.onMessage) never matches an earlier one, so Unsubscribe
// with it is a no-op. Every Subscribe also returns a Subscription whose
// Cancel removes exactly that registration.
//
// # Usage
//
//	b := bus.New(bus.WithLogger(logger))
//
//	logA := bus.ListenerFunc(func(msg message.Message) error {
//	    logger.Info("render", "message", msg.ID())
//	    return nil
//	})
//	b.Subscribe(topic.RenderSystem, logA)
//
//	b.Publish(topic.RenderSystem, message.NewRenderSystemMessage(rc))
//	b.Unsubscribe(topic.RenderSystem, logA)
package bus
