// Package topic defines the routing keys used by the message bus.
//
// The built-in topics name the engine subsystems that exchange messages.
// Any other non-built-in string is a valid custom topic; the bus does not
// restrict keys to this set.
package topic

// Topic is the routing key under which messages are published and
// listeners subscribe.
type Topic string

// Built-in subsystem topics.
const (
	// Entity carries entity lifecycle and state messages.
	Entity Topic = "entity"

	// ErrorSystem carries error reports, including listener failures.
	ErrorSystem Topic = "errorsystem"

	// IOSystem carries generic input/output messages.
	IOSystem Topic = "iosystem"

	// PhysicsSystem carries physics step and collision messages.
	PhysicsSystem Topic = "physicssystem"

	// RenderSystem carries render requests referencing render components.
	RenderSystem Topic = "rendersystem"

	// SoundSystem carries sound playback messages.
	SoundSystem Topic = "soundsystem"

	// KeyInput carries keyboard input.
	KeyInput Topic = "keyinput"

	// MouseInput carries mouse input.
	MouseInput Topic = "mouseinput"

	// TouchInput carries touch input.
	TouchInput Topic = "touchinput"
)

var builtin = []Topic{
	Entity,
	ErrorSystem,
	IOSystem,
	PhysicsSystem,
	RenderSystem,
	SoundSystem,
	KeyInput,
	MouseInput,
	TouchInput,
}

// Builtin returns the built-in topics in declaration order.
func Builtin() []Topic {
	result := make([]Topic, len(builtin))
	copy(result, builtin)
	return result
}

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// IsBuiltin reports whether t is one of the built-in subsystem topics.
func (t Topic) IsBuiltin() bool {
	for _, b := range builtin {
		if t == b {
			return true
		}
	}
	return false
}
