package message

import "github.com/dshills/enginebus/internal/topic"

// Renderable is a render component that a RenderSystemMessage references.
// The message holds the reference itself; it never copies or inspects it
// beyond JSON encoding.
type Renderable interface {
	ComponentID() string
}

// EntityMessage is a marker message for the entity subsystem.
type EntityMessage struct {
	Base
}

// NewEntityMessage creates an entity message.
func NewEntityMessage() *EntityMessage {
	return &EntityMessage{Base: NewBase()}
}

// Category returns topic.Entity.
func (m *EntityMessage) Category() topic.Topic { return topic.Entity }

// String returns the canonical encoding.
func (m *EntityMessage) String() string { return Encode(m) }

// IOSystemMessage is a marker message for the I/O subsystem.
type IOSystemMessage struct {
	Base
}

// NewIOSystemMessage creates an I/O message.
func NewIOSystemMessage() *IOSystemMessage {
	return &IOSystemMessage{Base: NewBase()}
}

// Category returns topic.IOSystem.
func (m *IOSystemMessage) Category() topic.Topic { return topic.IOSystem }

// String returns the canonical encoding.
func (m *IOSystemMessage) String() string { return Encode(m) }

// PhysicsSystemMessage is a marker message for the physics subsystem.
type PhysicsSystemMessage struct {
	Base
}

// NewPhysicsSystemMessage creates a physics message.
func NewPhysicsSystemMessage() *PhysicsSystemMessage {
	return &PhysicsSystemMessage{Base: NewBase()}
}

// Category returns topic.PhysicsSystem.
func (m *PhysicsSystemMessage) Category() topic.Topic { return topic.PhysicsSystem }

// String returns the canonical encoding.
func (m *PhysicsSystemMessage) String() string { return Encode(m) }

// SoundSystemMessage is a marker message for the sound subsystem.
type SoundSystemMessage struct {
	Base
}

// NewSoundSystemMessage creates a sound message.
func NewSoundSystemMessage() *SoundSystemMessage {
	return &SoundSystemMessage{Base: NewBase()}
}

// Category returns topic.SoundSystem.
func (m *SoundSystemMessage) Category() topic.Topic { return topic.SoundSystem }

// String returns the canonical encoding.
func (m *SoundSystemMessage) String() string { return Encode(m) }

// ErrorSystemMessage reports an error. Data is optional.
type ErrorSystemMessage struct {
	Base

	// ErrorCode classifies the error.
	ErrorCode ErrorCode

	// Data is an optional description; nil means absent.
	Data *string
}

// NewErrorSystemMessage creates an error message without data.
func NewErrorSystemMessage(code ErrorCode) *ErrorSystemMessage {
	return &ErrorSystemMessage{Base: NewBase(), ErrorCode: code}
}

// NewErrorSystemMessageWithData creates an error message carrying data.
func NewErrorSystemMessageWithData(code ErrorCode, data string) *ErrorSystemMessage {
	m := NewErrorSystemMessage(code)
	m.Data = &data
	return m
}

// Fields returns errorCode and, when set, data.
func (m *ErrorSystemMessage) Fields() []Field {
	fields := []Field{{Key: "errorCode", Value: m.ErrorCode}}
	if m.Data != nil {
		fields = append(fields, Field{Key: "data", Value: *m.Data})
	}
	return fields
}

// Category returns topic.ErrorSystem.
func (m *ErrorSystemMessage) Category() topic.Topic { return topic.ErrorSystem }

// String returns the canonical encoding.
func (m *ErrorSystemMessage) String() string { return Encode(m) }

// RenderSystemMessage asks the render subsystem to act on a component.
type RenderSystemMessage struct {
	Base

	// RenderableComponent is the referenced component.
	RenderableComponent Renderable
}

// NewRenderSystemMessage creates a render message referencing rc.
func NewRenderSystemMessage(rc Renderable) *RenderSystemMessage {
	return &RenderSystemMessage{Base: NewBase(), RenderableComponent: rc}
}

// Fields returns renderableComponent when set.
func (m *RenderSystemMessage) Fields() []Field {
	if m.RenderableComponent == nil {
		return nil
	}
	return []Field{{Key: "renderableComponent", Value: m.RenderableComponent}}
}

// Category returns topic.RenderSystem.
func (m *RenderSystemMessage) Category() topic.Topic { return topic.RenderSystem }

// String returns the canonical encoding.
func (m *RenderSystemMessage) String() string { return Encode(m) }

// KeyInputMessage reports a key press. It belongs to the I/O family.
type KeyInputMessage struct {
	Base

	KeyCode KeyCode
}

// NewKeyInputMessage creates a key input message.
func NewKeyInputMessage(code KeyCode) *KeyInputMessage {
	return &KeyInputMessage{Base: NewBase(), KeyCode: code}
}

// Fields returns keyCode.
func (m *KeyInputMessage) Fields() []Field {
	return []Field{{Key: "keyCode", Value: m.KeyCode}}
}

// Category returns topic.IOSystem.
func (m *KeyInputMessage) Category() topic.Topic { return topic.IOSystem }

// String returns the canonical encoding.
func (m *KeyInputMessage) String() string { return Encode(m) }

// MouseInputMessage reports a pointer position. It belongs to the I/O family.
type MouseInputMessage struct {
	Base

	X float64
	Y float64
}

// NewMouseInputMessage creates a mouse input message.
func NewMouseInputMessage(x, y float64) *MouseInputMessage {
	return &MouseInputMessage{Base: NewBase(), X: x, Y: y}
}

// Fields returns x and y.
func (m *MouseInputMessage) Fields() []Field {
	return []Field{{Key: "x", Value: m.X}, {Key: "y", Value: m.Y}}
}

// Category returns topic.IOSystem.
func (m *MouseInputMessage) Category() topic.Topic { return topic.IOSystem }

// String returns the canonical encoding.
func (m *MouseInputMessage) String() string { return Encode(m) }

// TouchInputMessage reports a touch position. It belongs to the I/O family.
type TouchInputMessage struct {
	Base

	X float64
	Y float64
}

// NewTouchInputMessage creates a touch input message.
func NewTouchInputMessage(x, y float64) *TouchInputMessage {
	return &TouchInputMessage{Base: NewBase(), X: x, Y: y}
}

// Fields returns x and y.
func (m *TouchInputMessage) Fields() []Field {
	return []Field{{Key: "x", Value: m.X}, {Key: "y", Value: m.Y}}
}

// Category returns topic.IOSystem.
func (m *TouchInputMessage) Category() topic.Topic { return topic.IOSystem }

// String returns the canonical encoding.
func (m *TouchInputMessage) String() string { return Encode(m) }

// TestData is the set of types a TestMessage can carry.
type TestData interface {
	~string | ~int | ~int32 | ~int64 | ~float32 | ~float64
}

// TestMessage carries an optional string or number. It exists to exercise
// the serialization contract.
type TestMessage struct {
	Base

	// Data is a string or number; nil means absent.
	Data any
}

// NewTestMessage creates a test message without data.
func NewTestMessage() *TestMessage {
	return &TestMessage{Base: NewBase()}
}

// NewTestMessageWithData creates a test message carrying v.
func NewTestMessageWithData[T TestData](v T) *TestMessage {
	m := NewTestMessage()
	m.Data = v
	return m
}

// Fields returns data when set.
func (m *TestMessage) Fields() []Field {
	if m.Data == nil {
		return nil
	}
	return []Field{{Key: "data", Value: m.Data}}
}

// String returns the canonical encoding.
func (m *TestMessage) String() string { return Encode(m) }

// CategoryOf returns the subsystem family of m, if it declares one.
func CategoryOf(m Message) (topic.Topic, bool) {
	if c, ok := m.(Categorized); ok {
		return c.Category(), true
	}
	return "", false
}
