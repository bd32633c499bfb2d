package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/enginebus/internal/config"
	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/topic"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T, opts Options) (*Application, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	opts.LogOutput = out

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(app.Shutdown)
	return app, out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestNew_Defaults(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	if app.Bus() == nil || app.Logger() == nil || app.Scripts() == nil {
		t.Fatal("expected all components to be initialized")
	}
	if got := app.Bus().ListenerCount(topic.ErrorSystem); got != 1 {
		t.Errorf("expected the error log listener on errorsystem, got %d", got)
	}
	if cfg := app.Config(); cfg.Log.Level != "info" || !cfg.Bus.FailureReports {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "enginebus.toml", "[log]\nlevel = \"loud\"\n")

	_, err := New(Options{ConfigPath: path})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "config" {
		t.Fatalf("expected config InitError, got %v", err)
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig in chain, got %v", err)
	}
}

func TestNew_InvalidLogLevelOverride(t *testing.T) {
	_, err := New(Options{LogLevel: "chatty"})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNew_LogLevelOverride(t *testing.T) {
	app, out := newTestApp(t, Options{LogLevel: "debug"})
	if app.Config().Log.Level != "debug" {
		t.Errorf("expected debug level, got %s", app.Config().Log.Level)
	}
	if !strings.Contains(out.String(), "Application initialized") {
		t.Error("expected debug output with debug level")
	}
}

func TestNew_LoadsScripts(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.lua", `bus.on("soundsystem", function(msg) end)`)
	bad := writeFile(t, dir, "bad.lua", `this is not lua`)

	app, out := newTestApp(t, Options{Scripts: []string{bad, good}})

	if got := app.Bus().ListenerCount(topic.SoundSystem); got != 1 {
		t.Errorf("expected the good script to be loaded, got %d listeners", got)
	}
	if !strings.Contains(out.String(), "script_failed") {
		t.Errorf("expected the bad script to be reported, log: %s", out.String())
	}
}

func TestErrorLog(t *testing.T) {
	app, out := newTestApp(t, Options{})

	app.Bus().Publish(topic.ErrorSystem,
		message.NewErrorSystemMessageWithData(message.ErrorCodeUnknown, "disk on fire"))
	app.Bus().Publish(topic.ErrorSystem, message.NewEntityMessage())

	log := out.String()
	if !strings.Contains(log, "disk on fire") || !strings.Contains(log, "code=unknown") {
		t.Errorf("expected error report in log: %s", log)
	}
	if strings.Count(log, "Error reported") != 2 {
		t.Errorf("expected 2 error reports, log: %s", log)
	}
}

func TestErrorLog_ListenerFailure(t *testing.T) {
	app, out := newTestApp(t, Options{})

	app.Bus().SubscribeFunc(topic.PhysicsSystem, func(msg message.Message) error {
		return errors.New("collision solver diverged")
	})
	app.Bus().Publish(topic.PhysicsSystem, message.NewPhysicsSystemMessage())

	if !strings.Contains(out.String(), "code=listener_failed") {
		t.Errorf("expected listener failure to reach the error log: %s", out.String())
	}
}

func TestRun(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer screen.Fini()

	keys := make(chan message.Message, 4)
	app.Bus().SubscribeFunc(topic.KeyInput, func(msg message.Message) error {
		keys <- msg
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background(), screen) }()

	_ = screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	_ = screen.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}

	select {
	case msg := <-keys:
		if msg.(*message.KeyInputMessage).KeyCode != message.KeyCodeLowerA {
			t.Errorf("unexpected key %v", msg)
		}
	default:
		t.Error("expected a key message")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, screen) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil on cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRun_UnknownQuitKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "enginebus.yaml", "input:\n  quit_key: Hyper-Q\n")
	app, _ := newTestApp(t, Options{ConfigPath: path})

	screen := tcell.NewSimulationScreen("")
	if err := app.Run(context.Background(), screen); !errors.Is(err, ErrUnknownQuitKey) {
		t.Errorf("expected ErrUnknownQuitKey, got %v", err)
	}
}

func TestShutdown(t *testing.T) {
	app, out := newTestApp(t, Options{})
	app.Bus().SubscribeFunc(topic.Entity, func(msg message.Message) error { return nil })

	app.Shutdown()
	app.Shutdown()

	select {
	case <-app.Done():
	default:
		t.Error("expected Done to be closed")
	}
	if n := app.Bus().TotalListenerCount(); n != 0 {
		t.Errorf("expected no listeners after Shutdown, got %d", n)
	}
	if strings.Count(out.String(), "Shutdown complete") != 1 {
		t.Error("expected a single shutdown log line")
	}
	if err := app.Run(context.Background(), tcell.NewSimulationScreen("")); !errors.Is(err, ErrShutdown) {
		t.Errorf("expected ErrShutdown, got %v", err)
	}
}

func TestReload(t *testing.T) {
	app, out := newTestApp(t, Options{Scripts: []string{}})

	cfg := config.Default()
	cfg.Log.Level = "error"
	app.reload(cfg)

	if app.level.Level() != slog.LevelError {
		t.Errorf("expected level error after reload, got %v", app.level.Level())
	}
	if app.Config().Log.Level != "error" {
		t.Error("expected reloaded config to be visible")
	}

	app.reloadFailed(errors.New("bad file"))
	// Warnings are below the reloaded level, so nothing new is logged.
	if strings.Contains(out.String(), "bad file") {
		t.Error("expected warn output to be suppressed at error level")
	}
}
