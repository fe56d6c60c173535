package app

import (
	"context"
	"fmt"
	"os"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/input/keymap"
	"github.com/dshills/inkwell/internal/plugin/lua"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string

	// configErr is a configuration load failure, reported once logging
	// is up.
	configErr error
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap(ctx context.Context) error {
	steps := []func(context.Context) error{
		b.initConfig,
		b.initLogging,
		b.initEngine,
		b.initKeymap,
		b.initMacros,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads the configuration. A file that fails to load or
// validate leaves the defaults in place.
func (b *bootstrapper) initConfig(ctx context.Context) error {
	var opts []config.Option
	if b.opts.ConfigPath != "" {
		opts = append(opts, config.WithFile(b.opts.ConfigPath))
	}
	if b.opts.DisableEnv {
		opts = append(opts, config.WithoutEnv())
	}

	b.app.config = config.New(opts...)
	if err := b.app.config.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return &InitError{Component: "config", Err: err}
		}
		b.configErr = err
	}
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogging creates the application logger at the configured level.
func (b *bootstrapper) initLogging(context.Context) error {
	level := b.opts.LogLevel
	if level == "" {
		level = b.app.config.Logging().Level
	}
	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(level)
	cfg.JSON = b.opts.LogJSON
	if b.opts.LogOutput != nil {
		cfg.Output = b.opts.LogOutput
	}
	b.app.logger = NewLogger(cfg)
	if b.configErr != nil {
		b.app.logger.WithComponent("config").Warn("using default settings: %v", b.configErr)
	}
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

// initEngine opens the note with the configured editor settings.
func (b *bootstrapper) initEngine(context.Context) error {
	editor := b.app.config.Editor()

	engineMetrics := engine.NewMetrics()
	if b.opts.Registerer != nil {
		if err := engineMetrics.Register(b.opts.Registerer); err != nil {
			return &InitError{Component: "metrics", Err: err}
		}
		if err := b.app.metrics.Register(b.opts.Registerer); err != nil {
			return &InitError{Component: "metrics", Err: err}
		}
	}

	opts := []engine.Option{
		engine.WithLogger(b.app.Logger().WithComponent("engine")),
		engine.WithMetrics(engineMetrics),
		engine.WithScheduler(engine.NewIntervalScheduler(editor.FrameInterval)),
		engine.WithSelectAllTimeout(editor.SelectAllTimeout),
		engine.WithHistoryDepth(editor.HistoryDepth),
		engine.WithMinify(editor.PersistMinify),
	}
	if b.opts.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}

	if b.opts.InputPath == "" {
		b.app.engine = engine.New(opts...)
	} else {
		f, err := os.Open(b.opts.InputPath)
		if err != nil {
			return &InitError{Component: "engine", Err: err}
		}
		defer f.Close()
		e, err := engine.NewFromReader(f, opts...)
		if err != nil {
			return &InitError{Component: "engine", Err: fmt.Errorf("%s: %w", b.opts.InputPath, err)}
		}
		b.app.engine = e
	}

	if b.opts.OutputPath != "" {
		b.app.engine.OnContentChange(b.app.save)
	}
	b.initOrder = append(b.initOrder, "engine")
	return nil
}

// initKeymap loads the default bindings and the configured overrides.
func (b *bootstrapper) initKeymap(context.Context) error {
	b.app.keymap = keymap.Default()
	b.app.applyKeymap(b.app.config)
	b.initOrder = append(b.initOrder, "keymap")
	return nil
}

// initMacros loads the configured macro scripts, then the requested ones.
func (b *bootstrapper) initMacros(ctx context.Context) error {
	log := b.app.Logger().WithComponent("macros")
	b.app.macros = lua.New(b.app.engine, lua.WithLogger(log))
	b.initOrder = append(b.initOrder, "macros")

	paths := append(b.app.config.Macros().Paths, b.opts.Scripts...)
	for _, path := range paths {
		if err := b.app.macros.LoadFile(ctx, expandHome(path)); err != nil {
			return &InitError{Component: "macros", Err: err}
		}
		log.Debug("loaded %s", path)
	}
	return nil
}

// initWatcher starts live reload of the configuration file.
func (b *bootstrapper) initWatcher(context.Context) error {
	if !b.opts.Watch || b.opts.ConfigPath == "" {
		return nil
	}
	b.app.config.OnReload(b.app.applyConfig)
	if err := b.app.config.Watch(); err != nil {
		return &InitError{Component: "config watcher", Err: err}
	}
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			_ = b.app.config.Close()
		case "macros":
			_ = b.app.macros.Close()
		}
	}
}
