package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/dshills/enginebus/internal/topic"
)

// ErrInvalidEncoding is returned when a string is not a JSON object.
var ErrInvalidEncoding = errors.New("message encoding is not a JSON object")

// Message is the contract every payload routed by the bus implements.
type Message interface {
	// ID returns the unique, immutable message identifier.
	ID() string

	// Fields returns the subtype-specific fields in declaration order.
	// Fields with no value are omitted, never returned as nil placeholders.
	Fields() []Field
}

// Categorized is implemented by messages that belong to a subsystem family.
type Categorized interface {
	Category() topic.Topic
}

// Field is a single key/value pair of a structured representation.
type Field struct {
	Key   string
	Value any
}

// Structured is the ordered field mapping of a message.
type Structured []Field

// Base carries the identity shared by all messages.
// Embed it to build a message type.
type Base struct {
	id string
}

// NewBase allocates a base with a fresh random identifier.
// It panics if the system randomness source is unavailable.
func NewBase() Base {
	return Base{id: uuid.New().String()}
}

// NewMessage creates a plain message with no extra fields.
func NewMessage() *Base {
	b := NewBase()
	return &b
}

// ID returns the message identifier.
func (b *Base) ID() string {
	return b.id
}

// Fields returns no fields; message types override it.
func (b *Base) Fields() []Field {
	return nil
}

// String returns the canonical encoding.
func (b *Base) String() string {
	return Encode(b)
}

// ToStructured returns the ordered representation of m: id first, then the
// subtype fields.
func ToStructured(m Message) Structured {
	fields := m.Fields()
	s := make(Structured, 0, len(fields)+1)
	s = append(s, Field{Key: "id", Value: m.ID()})
	return append(s, fields...)
}

// Marshal returns the canonical JSON encoding of m.
func Marshal(m Message) ([]byte, error) {
	return ToStructured(m).MarshalJSON()
}

// Encode returns the canonical string encoding of m. Equal structured values
// always produce identical strings.
func Encode(m Message) string {
	return ToStructured(m).String()
}

// Indent returns a multi-line rendering of m for debug output.
func Indent(m Message) string {
	data, err := Marshal(m)
	if err != nil {
		return Encode(m)
	}
	return string(pretty.Pretty(data))
}

// Get returns the value stored under key.
func (s Structured) Get(key string) (any, bool) {
	for _, f := range s {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the field keys in order.
func (s Structured) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON encodes the fields as a JSON object in order, without
// whitespace.
func (s Structured) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeValue(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := encodeValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the canonical encoding. Values that cannot be encoded as
// JSON are written as their quoted fmt representation.
func (s Structured) String() string {
	data, err := s.MarshalJSON()
	if err == nil {
		return string(data)
	}

	fallback := make(Structured, len(s))
	for i, f := range s {
		if _, err := encodeValue(f.Value); err != nil {
			f.Value = fmt.Sprint(f.Value)
		}
		fallback[i] = f
	}
	data, _ = fallback.MarshalJSON()
	return string(data)
}

// ParseStructured parses a canonical encoding back into its ordered fields.
// Values are kept as raw JSON so re-encoding reproduces the input.
func ParseStructured(s string) (Structured, error) {
	if !gjson.Valid(s) {
		return nil, ErrInvalidEncoding
	}
	root := gjson.Parse(s)
	if !root.IsObject() {
		return nil, ErrInvalidEncoding
	}

	var result Structured
	root.ForEach(func(key, value gjson.Result) bool {
		result = append(result, Field{
			Key:   key.String(),
			Value: json.RawMessage(value.Raw),
		})
		return true
	})
	return result, nil
}

// encodeValue marshals v without HTML escaping and without a trailing newline.
func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
