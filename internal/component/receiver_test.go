package component

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/enginebus/internal/bus"
	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/topic"
)

func newTestBus() *bus.Bus {
	return bus.New(bus.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestNewReceiver(t *testing.T) {
	b := newTestBus()
	var got []message.Message

	r, err := NewReceiverFunc(b, topic.Entity, func(msg message.Message) error {
		got = append(got, msg)
		return nil
	})
	if err != nil {
		t.Fatalf("NewReceiverFunc() failed: %v", err)
	}
	if r.Topic() != topic.Entity {
		t.Errorf("expected topic entity, got %s", r.Topic())
	}
	if !r.Subscribed() {
		t.Error("expected receiver to be subscribed")
	}
	if got := b.ListenerCount(topic.Entity); got != 1 {
		t.Fatalf("expected exactly 1 registration, got %d", got)
	}

	msg := message.NewEntityMessage()
	b.Publish(topic.Entity, msg)
	if len(got) != 1 || got[0] != msg {
		t.Errorf("expected receiver to get the published message, got %v", got)
	}
}

func TestNewReceiver_NilBus(t *testing.T) {
	_, err := NewReceiverFunc(nil, topic.Entity, func(msg message.Message) error { return nil })
	if !errors.Is(err, ErrBusNotInitialized) {
		t.Errorf("expected ErrBusNotInitialized, got %v", err)
	}
}

func TestNewReceiver_NilListener(t *testing.T) {
	b := newTestBus()
	if _, err := NewReceiver(b, topic.Entity, nil); !errors.Is(err, ErrNilListener) {
		t.Errorf("expected ErrNilListener, got %v", err)
	}
	if _, err := NewReceiverFunc(b, topic.Entity, nil); !errors.Is(err, ErrNilListener) {
		t.Errorf("expected ErrNilListener, got %v", err)
	}
	if b.TotalListenerCount() != 0 {
		t.Error("failed construction must not register anything")
	}
}

func TestReceiver_Publish(t *testing.T) {
	b := newTestBus()
	var renders []message.Message
	b.SubscribeFunc(topic.RenderSystem, func(msg message.Message) error {
		renders = append(renders, msg)
		return nil
	})

	r, err := NewReceiverFunc(b, topic.Entity, func(msg message.Message) error { return nil })
	if err != nil {
		t.Fatalf("NewReceiverFunc() failed: %v", err)
	}

	rc := NewRender("player")
	r.Publish(topic.RenderSystem, message.NewRenderSystemMessage(rc))

	if len(renders) != 1 {
		t.Fatalf("expected 1 render message, got %d", len(renders))
	}
	render := renders[0].(*message.RenderSystemMessage)
	if render.RenderableComponent != rc {
		t.Error("expected render message to carry the component reference")
	}
	if gjson.Get(render.String(), "renderableComponent.id").String() != "player" {
		t.Errorf("unexpected encoding %s", render.String())
	}
}

func TestReceiver_Close(t *testing.T) {
	b := newTestBus()
	calls := 0
	r, err := NewReceiverFunc(b, topic.Entity, func(msg message.Message) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("NewReceiverFunc() failed: %v", err)
	}

	r.Close()
	r.Close()

	if r.Subscribed() {
		t.Error("expected receiver to be unsubscribed after Close")
	}
	if got := b.ListenerCount(topic.Entity); got != 0 {
		t.Errorf("expected 0 listeners, got %d", got)
	}

	// Publishing through a closed receiver still reaches the bus.
	r.Publish(topic.Entity, message.NewEntityMessage())
	if calls != 0 {
		t.Errorf("closed receiver was invoked %d times", calls)
	}
	if s := b.Stats(); s.Published != 1 {
		t.Errorf("expected publish to reach the bus, got %+v", s)
	}
}

func TestReceiver_CloseLeavesOthers(t *testing.T) {
	b := newTestBus()
	handler := bus.ListenerFunc(func(msg message.Message) error { return nil })

	first, _ := NewReceiver(b, topic.Entity, handler)
	second, _ := NewReceiver(b, topic.Entity, handler)

	first.Close()
	if !second.Subscribed() {
		t.Error("closing one receiver removed another receiver's registration")
	}
	if got := b.ListenerCount(topic.Entity); got != 1 {
		t.Errorf("expected 1 listener, got %d", got)
	}
}

func TestReceiver_IsComponent(t *testing.T) {
	b := newTestBus()
	r, _ := NewReceiverFunc(b, topic.Entity, func(msg message.Message) error { return nil })
	r.SetComponentID("receiver")

	var c Component = r
	if c.ComponentID() != "receiver" {
		t.Errorf("expected component id 'receiver', got %q", c.ComponentID())
	}
}
