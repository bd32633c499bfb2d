// Package script runs Lua code that listens and publishes on the bus.
//
// Scripts see a global table named bus:
//
//	local id = bus.on("keyinput", function(msg) print(msg.keyCode) end)
//	bus.emit("soundsystem", { clip = "jump", volume = 0.5 })
//	bus.count("keyinput")  -- 1
//	bus.off(id)            -- true
//
// Callbacks receive the structured form of the message as a table. Messages
// emitted from Lua are published when the running chunk or callback returns,
// so a script never re-enters its own state.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/enginebus/internal/bus"
	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/topic"
)

// DefaultTimeout bounds a single chunk or callback.
const DefaultTimeout = 5 * time.Second

const handlersKey = "_bus_handlers"

var (
	// ErrHostClosed is returned when a closed host is used.
	ErrHostClosed = errors.New("script: host closed")

	// ErrScriptFailed wraps errors raised by Lua code.
	ErrScriptFailed = errors.New("script: lua error")
)

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithTimeout bounds each chunk and callback. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

type pending struct {
	topic topic.Topic
	msg   message.Message
}

// Host owns one Lua state bound to a bus.
//
// The Lua state is not goroutine-safe; every entry into it holds mu.
// Callbacks run on the publishing goroutine.
type Host struct {
	bus     *bus.Bus
	logger  *slog.Logger
	timeout time.Duration

	mu       sync.Mutex
	L        *lua.LState
	handlers *lua.LTable
	subs     map[string]*bus.Subscription
	outbox   []pending
	nextID   uint64
	closed   bool
}

// NewHost creates a host with the base, table, string and math libraries
// and the bus table installed.
func NewHost(b *bus.Bus, opts ...Option) (*Host, error) {
	if b == nil {
		return nil, errors.New("script: bus is nil")
	}

	h := &Host{
		bus:     b,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
		subs:    make(map[string]*bus.Subscription),
	}
	for _, opt := range opts {
		opt(h)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	h.L = L
	h.handlers = L.NewTable()
	L.SetGlobal(handlersKey, h.handlers)

	mod := L.NewTable()
	L.SetField(mod, "on", L.NewFunction(h.on))
	L.SetField(mod, "off", L.NewFunction(h.off))
	L.SetField(mod, "emit", L.NewFunction(h.emit))
	L.SetField(mod, "count", L.NewFunction(h.count))
	L.SetGlobal("bus", mod)

	return h, nil
}

// DoString runs a Lua chunk.
func (h *Host) DoString(src string) error {
	return h.run("string", func(L *lua.LState) error {
		return L.DoString(src)
	})
}

// DoFile runs a Lua file.
func (h *Host) DoFile(path string) error {
	return h.run(path, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// Subscriptions returns the number of live script subscriptions.
func (h *Host) Subscriptions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close cancels every script subscription and releases the Lua state.
// It is safe to call more than once.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, sub := range h.subs {
		sub.Cancel()
		delete(h.subs, id)
	}
	h.outbox = nil
	h.L.Close()
	h.logger.Debug("Script host closed")
}

func (h *Host) run(source string, fn func(L *lua.LState) error) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHostClosed
	}

	err := h.call(fn)
	out := h.drain()
	h.mu.Unlock()

	h.flush(out)

	if err != nil {
		h.logger.Warn("Script failed", "source", source, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrScriptFailed, source, err)
	}
	return nil
}

// call enters the Lua state. mu must be held.
func (h *Host) call(fn func(L *lua.LState) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if h.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		h.L.SetContext(ctx)
		defer h.L.RemoveContext()
	}

	return fn(h.L)
}

// drain takes the queued emits. mu must be held.
func (h *Host) drain() []pending {
	out := h.outbox
	h.outbox = nil
	return out
}

func (h *Host) flush(out []pending) {
	for _, p := range out {
		h.bus.Publish(p.topic, p.msg)
	}
}

// listener returns the bus listener for the handler stored under id.
func (h *Host) listener(id string) bus.ListenerFunc {
	return func(msg message.Message) error {
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			return nil
		}

		err := h.call(func(L *lua.LState) error {
			fn, ok := L.GetField(h.handlers, id).(*lua.LFunction)
			if !ok {
				return nil
			}
			tbl, err := messageToTable(L, msg)
			if err != nil {
				return err
			}
			return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, tbl)
		})
		out := h.drain()
		h.mu.Unlock()

		h.flush(out)

		if err != nil {
			return fmt.Errorf("%w: handler %s: %v", ErrScriptFailed, id, err)
		}
		return nil
	}
}

// on(topic, fn) -> id
func (h *Host) on(L *lua.LState) int {
	t := L.CheckString(1)
	fn := L.CheckFunction(2)
	if t == "" {
		L.ArgError(1, "topic cannot be empty")
		return 0
	}

	h.nextID++
	id := fmt.Sprintf("lua_%d", h.nextID)
	h.handlers.RawSetString(id, fn)
	h.subs[id] = h.bus.Subscribe(topic.Topic(t), h.listener(id))

	L.Push(lua.LString(id))
	return 1
}

// off(id) -> bool
func (h *Host) off(L *lua.LState) int {
	id := L.CheckString(1)

	sub, ok := h.subs[id]
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}

	delete(h.subs, id)
	h.handlers.RawSetString(id, lua.LNil)
	L.Push(lua.LBool(sub.Cancel()))
	return 1
}

// emit(topic, table?)
func (h *Host) emit(L *lua.LState) int {
	t := L.CheckString(1)
	if t == "" {
		L.ArgError(1, "topic cannot be empty")
		return 0
	}

	var values map[string]any
	if tbl := L.OptTable(2, nil); tbl != nil {
		values = tableToMap(tbl)
	}

	h.outbox = append(h.outbox, pending{
		topic: topic.Topic(t),
		msg:   NewMessage(values),
	})
	return 0
}

// count(topic) -> n
func (h *Host) count(L *lua.LState) int {
	t := L.CheckString(1)
	L.Push(lua.LNumber(h.bus.ListenerCount(topic.Topic(t))))
	return 1
}
