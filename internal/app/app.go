// Package app wires the bus, its built-in listeners, scripts and terminal
// input into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/enginebus/internal/bus"
	"github.com/dshills/enginebus/internal/component"
	"github.com/dshills/enginebus/internal/config"
	"github.com/dshills/enginebus/internal/input"
	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/script"
	"github.com/dshills/enginebus/internal/topic"
)

// Options configures application startup.
type Options struct {
	// ConfigPath is the path to the configuration file. It is also watched
	// while Run is active.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Scripts are loaded after the configured scripts.
	Scripts []string

	// LogOutput receives log output. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application owns the bus and everything attached to it.
type Application struct {
	opts Options

	mu     sync.RWMutex
	config *config.Config
	level  *slog.LevelVar
	logger *slog.Logger

	bus      *bus.Bus
	errorLog *component.Receiver
	scripts  *script.Host

	running      atomic.Bool
	closed       atomic.Bool
	shutdownOnce sync.Once
	done         chan struct{}
}

// New creates an Application and initializes its components in order:
// config, logger, bus, error log listener, scripts.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}

	app.logger.Debug("Application initialized",
		"topics", app.bus.Topics(),
		"listeners", app.bus.TotalListenerCount(),
	)
	return app, nil
}

// Bus returns the message bus.
func (app *Application) Bus() *bus.Bus {
	return app.bus
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Config returns a copy of the current configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config.Clone()
}

// Scripts returns the script host.
func (app *Application) Scripts() *script.Host {
	return app.scripts
}

// Done is closed when Shutdown completes.
func (app *Application) Done() <-chan struct{} {
	return app.done
}

// Run publishes terminal input from screen until the quit key is pressed,
// the screen is finalized or ctx is done. While running, the config file is
// watched and reloaded. Run returns nil on a normal stop.
func (app *Application) Run(ctx context.Context, screen tcell.Screen) error {
	if app.closed.Load() {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	cfg := app.Config()
	quit, ok := input.ParseQuitKey(cfg.Input.QuitKey)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuitKey, cfg.Input.QuitKey)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if app.opts.ConfigPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := config.Watch(runCtx, app.opts.ConfigPath, app.reload, app.reloadFailed); err != nil {
				app.logger.Warn("Config watch unavailable", "path", app.opts.ConfigPath, "error", err)
			}
		}()
	}

	bridge := input.NewBridge(app.bus, screen,
		input.WithQuitKey(quit),
		input.WithMouse(cfg.Input.Mouse),
		input.WithIOEcho(cfg.Input.IOEcho),
		input.WithLogger(app.logger.With("component", "input")),
	)

	app.logger.Info("Running", "quitKey", cfg.Input.QuitKey)
	err := bridge.Run(runCtx)

	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		app.bus.Publish(topic.ErrorSystem,
			message.NewErrorSystemMessageWithData(message.ErrorCodeInputFailed, err.Error()))
		return err
	}

	app.logger.Info("Stopped", "inputs", bridge.Published())
	return nil
}

// Shutdown closes scripts and removes every listener. It is safe to call
// more than once.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.closed.Store(true)

		if app.scripts != nil {
			app.scripts.Close()
		}
		if app.errorLog != nil {
			app.errorLog.Close()
		}

		stats := app.bus.Stats()
		app.bus.UnsubscribeAll()

		app.logger.Info("Shutdown complete",
			"published", stats.Published,
			"unrouted", stats.Unrouted,
			"delivered", stats.Delivered,
			"failed", stats.Failed,
			"panicked", stats.Panicked,
		)
		close(app.done)
	})
}

// logErrorMessage logs messages published on the errorsystem topic.
func (app *Application) logErrorMessage(msg message.Message) error {
	em, ok := msg.(*message.ErrorSystemMessage)
	if !ok {
		app.logger.Warn("Error reported", "message", message.Encode(msg))
		return nil
	}

	attrs := []any{"code", em.ErrorCode.String(), "message", em.ID()}
	if em.Data != nil {
		attrs = append(attrs, "data", *em.Data)
	}
	app.logger.Warn("Error reported", attrs...)
	return nil
}

// reload applies a configuration read from disk. Only the log level takes
// effect without a restart.
func (app *Application) reload(cfg *config.Config) {
	app.mu.Lock()
	cfg.Scripts.Paths = app.config.Scripts.Paths
	app.config = cfg
	app.mu.Unlock()

	app.level.Set(ParseLogLevel(cfg.Log.Level))
	app.logger.Info("Configuration reloaded", "level", cfg.Log.Level)
}

func (app *Application) reloadFailed(err error) {
	app.logger.Warn("Configuration reload failed", "error", err)
	app.bus.Publish(topic.ErrorSystem,
		message.NewErrorSystemMessageWithData(message.ErrorCodeConfigInvalid, err.Error()))
}
