package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/topic"
)

func TestTranslate_Key(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want message.KeyCode
	}{
		{"lower a", 'a', message.KeyCodeLowerA},
		{"lower z", 'z', message.KeyCodeLowerZ},
		{"upper A", 'A', message.KeyCodeA},
		{"upper Z", 'Z', message.KeyCodeZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, msg, ok := Translate(tcell.NewEventKey(tcell.KeyRune, tt.r, tcell.ModNone))
			if !ok {
				t.Fatal("expected key event to translate")
			}
			if top != topic.KeyInput {
				t.Errorf("expected topic keyinput, got %s", top)
			}
			key, isKey := msg.(*message.KeyInputMessage)
			if !isKey {
				t.Fatalf("expected *KeyInputMessage, got %T", msg)
			}
			if key.KeyCode != tt.want {
				t.Errorf("KeyCode = %v, want %v", key.KeyCode, tt.want)
			}
		})
	}
}

func TestTranslate_Ignored(t *testing.T) {
	tests := []struct {
		name string
		ev   tcell.Event
	}{
		{"digit", tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone)},
		{"punctuation", tcell.NewEventKey(tcell.KeyRune, '!', tcell.ModNone)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)},
		{"resize", tcell.NewEventResize(80, 24)},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, msg, ok := Translate(tt.ev); ok || msg != nil {
				t.Errorf("expected event to be ignored, got %v", msg)
			}
		})
	}
}

func TestTranslate_Mouse(t *testing.T) {
	top, msg, ok := Translate(tcell.NewEventMouse(12, 7, tcell.Button1, tcell.ModNone))
	if !ok {
		t.Fatal("expected mouse event to translate")
	}
	if top != topic.MouseInput {
		t.Errorf("expected topic mouseinput, got %s", top)
	}
	mouse := msg.(*message.MouseInputMessage)
	if mouse.X != 12 || mouse.Y != 7 {
		t.Errorf("expected (12, 7), got (%v, %v)", mouse.X, mouse.Y)
	}
}

func TestParseQuitKey(t *testing.T) {
	k, ok := ParseQuitKey(tcell.KeyNames[tcell.KeyEscape])
	if !ok || k != tcell.KeyEscape {
		t.Errorf("expected Escape, got %v (%v)", k, ok)
	}

	k, ok = ParseQuitKey(tcell.KeyNames[tcell.KeyCtrlC])
	if !ok || k != tcell.KeyCtrlC {
		t.Errorf("expected Ctrl-C, got %v (%v)", k, ok)
	}

	if _, ok := ParseQuitKey("NoSuchKey"); ok {
		t.Error("expected unknown key name to fail")
	}
}
