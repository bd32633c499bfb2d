// Package input turns terminal events into input messages on the bus.
//
// A Bridge polls a tcell screen and publishes what it reads:
//
//   - letter keys become KeyInputMessage on topic.KeyInput
//   - mouse events become MouseInputMessage on topic.MouseInput
//
// Everything else is dropped. Translate exposes the mapping on its own so
// callers that own their event loop can reuse it.
//
// # Usage
//
//	screen, _ := tcell.NewScreen()
//	_ = screen.Init()
//	bridge := input.NewBridge(b, screen, input.WithIOEcho(true))
//	err := bridge.Run(ctx)
package input
