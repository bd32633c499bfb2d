package bus

import (
	"reflect"
	"unsafe"

	"github.com/dshills/enginebus/internal/message"
)

// Listener handles messages published on a topic.
// A returned error is reported by the bus and does not stop dispatch to
// the listeners registered after it.
type Listener interface {
	HandleMessage(msg message.Message) error
}

// ListenerFunc is a function adapter for Listener.
type ListenerFunc func(msg message.Message) error

// HandleMessage implements the Listener interface.
func (f ListenerFunc) HandleMessage(msg message.Message) error {
	return f(msg)
}

// funcIdentity identifies a function listener by its type and closure.
type funcIdentity struct {
	typ     reflect.Type
	closure unsafe.Pointer
}

// identityOf returns the value used to match l on Unsubscribe.
//
// Comparable listeners (pointers, comparable structs) match by ==. Function
// listeners match by the closure they point to: the same top-level function
// or the same func variable matches, while two method values or two closures
// that capture state never do, even when they share code. Listeners of other
// kinds return nil and can only be removed through their Subscription.
func identityOf(l Listener) any {
	if l == nil {
		return nil
	}
	v := reflect.ValueOf(l)
	if v.Kind() == reflect.Func {
		return funcIdentity{typ: v.Type(), closure: closureOf(v)}
	}
	if v.Type().Comparable() {
		return l
	}
	return nil
}

// closureOf returns the closure word of the func value v.
func closureOf(v reflect.Value) unsafe.Pointer {
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return *(*unsafe.Pointer)(p.UnsafePointer())
}

// sameIdentity reports whether two identities match. Comparable structs may
// still hold uncomparable values in interface fields; those never match.
func sameIdentity(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
