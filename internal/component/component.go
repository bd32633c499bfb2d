// Package component provides the pieces of the entity/component graph that
// talk to the message bus: a component base, the render component referenced
// by render messages, and the Receiver adapter.
package component

// Component is an element of an entity's component list.
type Component interface {
	ComponentID() string
}

// Base carries a component identifier. The identifier is chosen by the
// owner and may be empty.
type Base struct {
	id string
}

// NewBase creates a base with the given identifier.
func NewBase(id string) Base {
	return Base{id: id}
}

// ComponentID returns the identifier.
func (b *Base) ComponentID() string {
	return b.id
}

// SetComponentID changes the identifier.
func (b *Base) SetComponentID(id string) {
	b.id = id
}

// Render is the render subsystem's handle for something drawable.
// Render messages carry a pointer to it; the bus never copies it.
type Render struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	Layer   int    `json:"layer"`
}

// NewRender creates a visible render component on layer 0.
func NewRender(id string) *Render {
	return &Render{ID: id, Visible: true}
}

// ComponentID returns the render component identifier.
func (r *Render) ComponentID() string {
	return r.ID
}
