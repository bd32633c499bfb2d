package input

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/enginebus/internal/bus"
	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/topic"
)

var (
	// ErrNilScreen is returned by Run when the bridge has no screen.
	ErrNilScreen = errors.New("input: screen is nil")

	// ErrAlreadyRunning is returned by Run when another Run is active.
	ErrAlreadyRunning = errors.New("input: bridge already running")
)

// Option configures a Bridge.
type Option func(*Bridge)

// WithQuitKey sets the key that stops Run. The default is Escape.
func WithQuitKey(k tcell.Key) Option {
	return func(b *Bridge) {
		b.quitKey = k
	}
}

// WithIOEcho also publishes an IOSystemMessage on topic.IOSystem for every
// translated event.
func WithIOEcho(enabled bool) Option {
	return func(b *Bridge) {
		b.ioEcho = enabled
	}
}

// WithMouse toggles mouse reporting on the screen when Run starts.
func WithMouse(enabled bool) Option {
	return func(b *Bridge) {
		b.mouse = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// Bridge publishes terminal input on a bus.
type Bridge struct {
	bus    *bus.Bus
	screen tcell.Screen
	logger *slog.Logger

	quitKey tcell.Key
	ioEcho  bool
	mouse   bool

	running   atomic.Bool
	published atomic.Uint64
}

// NewBridge creates a bridge reading from screen and publishing on b.
// The screen must already be initialized.
func NewBridge(b *bus.Bus, screen tcell.Screen, opts ...Option) *Bridge {
	br := &Bridge{
		bus:     b,
		screen:  screen,
		logger:  slog.Default(),
		quitKey: tcell.KeyEscape,
		mouse:   true,
	}
	for _, opt := range opts {
		opt(br)
	}
	return br
}

// Published returns the number of input messages published so far.
func (br *Bridge) Published() uint64 {
	return br.published.Load()
}

// Run polls the screen until the quit key is pressed, ctx is done or the
// screen is finalized. It returns ctx.Err() when stopped by the context and
// nil otherwise.
func (br *Bridge) Run(ctx context.Context) error {
	if br.screen == nil {
		return ErrNilScreen
	}
	if !br.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer br.running.Store(false)

	if br.mouse {
		br.screen.EnableMouse()
	} else {
		br.screen.DisableMouse()
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// Wake PollEvent so the loop can observe cancellation.
			_ = br.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
		case <-stop:
		}
	}()

	br.logger.Debug("Input bridge started", "quitKey", tcell.KeyNames[br.quitKey])

	for {
		ev := br.screen.PollEvent()
		if ev == nil {
			br.logger.Debug("Input bridge stopped", "reason", "screen finalized")
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				br.logger.Debug("Input bridge stopped", "reason", err)
				return err
			}
			continue
		case *tcell.EventKey:
			if e.Key() == br.quitKey {
				br.logger.Debug("Input bridge stopped", "reason", "quit key")
				return nil
			}
		}

		br.dispatch(ev)
	}
}

func (br *Bridge) dispatch(ev tcell.Event) {
	t, msg, ok := Translate(ev)
	if !ok {
		br.logger.Debug("Ignoring input event", "event", eventName(ev))
		return
	}

	br.bus.Publish(t, msg)
	br.published.Add(1)

	if br.ioEcho {
		br.bus.Publish(topic.IOSystem, message.NewIOSystemMessage())
	}
}

func eventName(ev tcell.Event) string {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return e.Name()
	case *tcell.EventResize:
		return "resize"
	case *tcell.EventPaste:
		return "paste"
	case *tcell.EventFocus:
		return "focus"
	default:
		return "unknown"
	}
}
