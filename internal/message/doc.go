// Package message defines the payloads routed by the engine message bus.
//
// Every message has a unique identifier allocated at construction and a
// canonical structured form: the "id" field first, followed by the fields
// of the concrete type in declaration order. Optional fields with no value
// are left out entirely. The canonical string encoding is compact JSON of
// that form, so equal messages always encode to identical strings.
//
// # Catalog
//
// The built-in payloads mirror the engine subsystems:
//
//   - EntityMessage, IOSystemMessage, PhysicsSystemMessage, SoundSystemMessage
//   - ErrorSystemMessage (errorCode, optional data)
//   - RenderSystemMessage (reference to a render component)
//   - KeyInputMessage, MouseInputMessage, TouchInputMessage (I/O family)
//   - TestMessage (optional string or number)
//
// # Usage
//
//	msg := message.NewMouseInputMessage(11, 23)
//	fmt.Println(msg) // {"id":"...","x":11,"y":23}
//
// Custom payloads embed Base and override Fields:
//
//	type ScoreMessage struct {
//	    message.Base
//	    Points int
//	}
//
//	func (m *ScoreMessage) Fields() []message.Field {
//	    return []message.Field{{Key: "points", Value: m.Points}}
//	}
package message
