package app

import (
	"log/slog"

	"github.com/dshills/enginebus/internal/bus"
	"github.com/dshills/enginebus/internal/component"
	"github.com/dshills/enginebus/internal/config"
	"github.com/dshills/enginebus/internal/message"
	"github.com/dshills/enginebus/internal/script"
	"github.com/dshills/enginebus/internal/topic"
)

// bootstrapper handles component initialization with cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 4),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		// 1. Config
		b.initConfig,
		// 2. Logger
		b.initLogger,
		// 3. Bus
		b.initBus,
		// 4. Error log listener
		b.initErrorLog,
		// 5. Scripts
		b.initScripts,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}

	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	cfg.Scripts.Paths = append(cfg.Scripts.Paths, b.opts.Scripts...)

	b.app.config = cfg
	return nil
}

func (b *bootstrapper) initLogger() error {
	cfg := b.app.config

	b.app.level = new(slog.LevelVar)
	b.app.level.Set(ParseLogLevel(cfg.Log.Level))
	b.app.logger = NewLogger(LoggerConfig{
		Level:  b.app.level,
		Format: cfg.Log.Format,
		Output: b.opts.LogOutput,
	})
	return nil
}

func (b *bootstrapper) initBus() error {
	cfg := b.app.config
	b.app.bus = bus.New(
		bus.WithLogger(b.app.logger.With("component", "bus")),
		bus.WithFailureReports(cfg.Bus.FailureReports),
		bus.WithDispatchLogging(cfg.Bus.DispatchLogging),
	)
	b.initOrder = append(b.initOrder, "bus")
	return nil
}

func (b *bootstrapper) initErrorLog() error {
	r, err := component.NewReceiverFunc(b.app.bus, topic.ErrorSystem, b.app.logErrorMessage)
	if err != nil {
		return &InitError{Component: "error log", Err: err}
	}
	r.SetComponentID("error-log")
	b.app.errorLog = r
	b.initOrder = append(b.initOrder, "errorLog")
	return nil
}

// initScripts loads every configured script. A script that fails to load is
// reported on the errorsystem topic and skipped.
func (b *bootstrapper) initScripts() error {
	host, err := script.NewHost(b.app.bus, script.WithLogger(b.app.logger.With("component", "script")))
	if err != nil {
		return &InitError{Component: "scripts", Err: err}
	}
	b.app.scripts = host
	b.initOrder = append(b.initOrder, "scripts")

	for _, path := range b.app.config.Scripts.Paths {
		if err := host.DoFile(path); err != nil {
			b.app.bus.Publish(topic.ErrorSystem,
				message.NewErrorSystemMessageWithData(message.ErrorCodeScriptFailed, err.Error()))
			continue
		}
		b.app.logger.Info("Loaded script", "path", path)
	}
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "scripts":
			b.app.scripts.Close()
			b.app.scripts = nil
		case "errorLog":
			b.app.errorLog.Close()
			b.app.errorLog = nil
		case "bus":
			b.app.bus.UnsubscribeAll()
		}
	}
}
