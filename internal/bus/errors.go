package bus

import (
	"errors"
	"fmt"

	"github.com/dshills/enginebus/internal/topic"
)

// Sentinel errors for listener failures.
var (
	// ErrListenerFailed matches a ListenerError caused by a returned error.
	ErrListenerFailed = errors.New("listener failed")

	// ErrListenerPanic matches a ListenerError caused by a panic.
	ErrListenerPanic = errors.New("listener panicked")
)

// ListenerError describes a listener that failed during dispatch.
type ListenerError struct {
	// SubscriptionID is the ID of the failing registration.
	SubscriptionID string

	// Topic is the topic being dispatched.
	Topic topic.Topic

	// MessageID is the ID of the message being dispatched.
	MessageID string

	// Err is the error returned by the listener, or the panic value as an
	// error.
	Err error

	// Panicked is true if the listener panicked.
	Panicked bool

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("listener panic for subscription %s on topic %s: %v", e.SubscriptionID, e.Topic, e.Value)
	}
	return fmt.Sprintf("listener error for subscription %s on topic %s: %v", e.SubscriptionID, e.Topic, e.Err)
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// Is matches ErrListenerPanic for panics and ErrListenerFailed otherwise.
func (e *ListenerError) Is(target error) bool {
	if e.Panicked {
		return target == ErrListenerPanic
	}
	return target == ErrListenerFailed
}

// panicAsError converts a recovered value into an error.
func panicAsError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}
