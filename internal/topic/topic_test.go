package topic

import "testing"

func TestTopic_String(t *testing.T) {
	if RenderSystem.String() != "rendersystem" {
		t.Errorf("expected 'rendersystem', got '%s'", RenderSystem.String())
	}
}

func TestTopic_IsBuiltin(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected bool
	}{
		{Entity, true},
		{ErrorSystem, true},
		{IOSystem, true},
		{PhysicsSystem, true},
		{RenderSystem, true},
		{SoundSystem, true},
		{KeyInput, true},
		{MouseInput, true},
		{TouchInput, true},
		{"", false},
		{"game.score", false},
		{"Entity", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic), func(t *testing.T) {
			if got := tt.topic.IsBuiltin(); got != tt.expected {
				t.Errorf("IsBuiltin(%q) = %v, want %v", tt.topic, got, tt.expected)
			}
		})
	}
}

func TestBuiltin(t *testing.T) {
	topics := Builtin()
	if len(topics) != 9 {
		t.Fatalf("expected 9 built-in topics, got %d", len(topics))
	}
	if topics[0] != Entity || topics[8] != TouchInput {
		t.Errorf("unexpected order: %v", topics)
	}

	// Mutating the result must not affect later calls.
	topics[0] = "changed"
	if Builtin()[0] != Entity {
		t.Error("Builtin() returned shared backing storage")
	}
}
