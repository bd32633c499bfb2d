package script

import (
	"sort"

	"github.com/dshills/enginebus/internal/message"
)

// Message is a message built from a Lua table by bus.emit.
// Its fields are the table's string keys in lexical order.
type Message struct {
	message.Base

	Values map[string]any
}

// NewMessage creates a script message carrying values. A value stored
// under "id" is dropped; the message keeps its own identifier.
func NewMessage(values map[string]any) *Message {
	m := &Message{
		Base:   message.NewBase(),
		Values: make(map[string]any, len(values)),
	}
	for k, v := range values {
		if k == "id" {
			continue
		}
		m.Values[k] = v
	}
	return m
}

// Fields returns the values sorted by key.
func (m *Message) Fields() []message.Field {
	if len(m.Values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m.Values))
	for k := range m.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]message.Field, len(keys))
	for i, k := range keys {
		fields[i] = message.Field{Key: k, Value: m.Values[k]}
	}
	return fields
}

// String returns the canonical encoding.
func (m *Message) String() string { return message.Encode(m) }
