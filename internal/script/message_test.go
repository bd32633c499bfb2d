package script

import (
	"testing"

	"github.com/dshills/enginebus/internal/message"
)

func TestMessage_FieldsSorted(t *testing.T) {
	m := NewMessage(map[string]any{"z": 1.0, "a": "x", "m": true})
	want := `{"id":"` + m.ID() + `","a":"x","m":true,"z":1}`
	if got := m.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestMessage_IDKeyDropped(t *testing.T) {
	m := NewMessage(map[string]any{"id": "forged", "v": 1.0})
	if m.ID() == "forged" {
		t.Error("table id replaced the message id")
	}
	if keys := message.ToStructured(m).Keys(); len(keys) != 2 {
		t.Errorf("expected keys [id v], got %v", keys)
	}
}

func TestMessage_Empty(t *testing.T) {
	m := NewMessage(nil)
	if m.Fields() != nil {
		t.Errorf("expected no fields, got %v", m.Fields())
	}
}
