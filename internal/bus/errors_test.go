package bus

import (
	"errors"
	"strings"
	"testing"
)

func TestListenerError_Error(t *testing.T) {
	err := &ListenerError{
		SubscriptionID: "sub-1",
		Topic:          "entity",
		Err:            errors.New("boom"),
	}
	want := "listener error for subscription sub-1 on topic entity: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	panicErr := &ListenerError{
		SubscriptionID: "sub-2",
		Topic:          "render",
		Panicked:       true,
		Value:          "bad",
		Err:            panicAsError("bad"),
	}
	if !strings.Contains(panicErr.Error(), "listener panic for subscription sub-2 on topic render: bad") {
		t.Errorf("unexpected panic message %q", panicErr.Error())
	}
}

func TestListenerError_Is(t *testing.T) {
	failed := &ListenerError{Err: errors.New("x")}
	if !errors.Is(failed, ErrListenerFailed) || errors.Is(failed, ErrListenerPanic) {
		t.Error("returned error should match ErrListenerFailed only")
	}

	panicked := &ListenerError{Panicked: true, Err: errors.New("x")}
	if !errors.Is(panicked, ErrListenerPanic) || errors.Is(panicked, ErrListenerFailed) {
		t.Error("panic should match ErrListenerPanic only")
	}
}

func TestPanicAsError(t *testing.T) {
	base := errors.New("inner")
	if panicAsError(base) != base {
		t.Error("expected error panic values to pass through")
	}
	if panicAsError(42).Error() != "42" {
		t.Errorf("unexpected conversion %q", panicAsError(42).Error())
	}
}
