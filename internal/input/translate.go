package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/topic"
)

// Translate converts a terminal event into the topic and message it should be
// published as. It returns false for events that have no message form.
func Translate(ev tcell.Event) (topic.Topic, message.Message, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() != tcell.KeyRune {
			return "", nil, false
		}
		code, ok := message.KeyCodeFromRune(e.Rune())
		if !ok {
			return "", nil, false
		}
		return topic.KeyInput, message.NewKeyInputMessage(code), true

	case *tcell.EventMouse:
		x, y := e.Position()
		return topic.MouseInput, message.NewMouseInputMessage(float64(x), float64(y)), true

	default:
		return "", nil, false
	}
}

// ParseQuitKey maps a key name to a tcell key. Names are matched the way
// tcell spells them ("Esc", "Ctrl-C", "Enter", ...). Unknown names return
// false.
func ParseQuitKey(name string) (tcell.Key, bool) {
	for k, n := range tcell.KeyNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}
