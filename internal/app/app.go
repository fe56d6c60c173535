// Package app provides the main application structure and coordination
// for Inkwell. It wires configuration, logging, the editing engine, key
// bindings and macros together and manages their lifecycle.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/input/keymap"
	"github.com/dshills/inkwell/internal/plugin/lua"
)

// Application is the central coordinator for all Inkwell components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config  *config.Config
	logger  *Logger
	metrics *Metrics

	// Editor components
	engine *engine.Engine
	keymap *keymap.Keymap
	macros *lua.Runtime

	// Autosave target, written on every coalesced content change
	saveMu sync.Mutex

	closed bool
	opts   Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty means no file.
	ConfigPath string

	// InputPath is the note to open. Empty opens an empty note.
	InputPath string

	// OutputPath receives the note markup whenever its content changes.
	OutputPath string

	// Scripts are Lua macro files loaded after those named in the
	// configuration.
	Scripts []string

	// LogLevel overrides the configured logging level when set.
	LogLevel string

	// LogOutput receives log output. Defaults to os.Stderr.
	LogOutput io.Writer

	// LogJSON writes log records as JSON lines.
	LogJSON bool

	// ReadOnly opens the note in read-only mode.
	ReadOnly bool

	// Watch reloads the configuration when its file changes.
	Watch bool

	// DisableEnv ignores INKWELL_* environment variables.
	DisableEnv bool

	// Registerer receives the application and engine metrics. Nil keeps
	// them unregistered.
	Registerer prometheus.Registerer
}

// New creates a new Application with the given options.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app, opts).bootstrap(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// Engine returns the editing engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Keymap returns the active key bindings.
func (app *Application) Keymap() *keymap.Keymap {
	return app.keymap
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application's logger instance.
func (app *Application) Logger() *Logger {
	if app.logger == nil {
		return GetLogger()
	}
	return app.logger
}

// Metrics returns the application counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Macros returns the names of the loaded macros.
func (app *Application) Macros() []string {
	return app.macros.Macros()
}

// Run invokes an engine command by identifier and reports whether it
// applied.
func (app *Application) Run(id string) (bool, error) {
	if err := app.checkOpen(); err != nil {
		return false, err
	}
	ok, err := app.engine.Run(id)
	if err != nil {
		return false, &OperationError{Op: "run", Target: id, Err: err}
	}
	return ok, nil
}

// RunAll runs commands in order. An inapplicable command is logged and
// skipped; the first error stops the sequence.
func (app *Application) RunAll(ids []string) error {
	for _, id := range ids {
		ok, err := app.Run(id)
		if err != nil {
			return err
		}
		if !ok {
			app.Logger().WithComponent("app").Info("command %s did not apply", id)
		}
	}
	return nil
}

// HandleKey runs the command bound to a key combination.
func (app *Application) HandleKey(spec string) (bool, error) {
	id, bound := app.keymap.Lookup(spec)
	if !bound {
		app.metrics.Keys.WithLabelValues("false").Inc()
		return false, &OperationError{Op: "key", Target: spec, Err: ErrUnboundKey}
	}
	app.metrics.Keys.WithLabelValues("true").Inc()
	return app.Run(id)
}

// RunMacro runs a macro loaded from a script.
func (app *Application) RunMacro(ctx context.Context, name string) error {
	if err := app.checkOpen(); err != nil {
		return err
	}
	err := app.macros.Run(ctx, name)
	app.metrics.MacroRuns.WithLabelValues(name, result(err)).Inc()
	if err != nil {
		return &OperationError{Op: "macro", Target: name, Err: err}
	}
	return nil
}

// Markup returns the note's current markup.
func (app *Application) Markup() (string, error) {
	return app.engine.Markup()
}

func (app *Application) checkOpen() error {
	app.mu.RLock()
	defer app.mu.RUnlock()
	if app.closed {
		return ErrClosed
	}
	return nil
}

// applyConfig re-applies the settings that can change while running.
func (app *Application) applyConfig(cfg *config.Config, err error) {
	log := app.Logger().WithComponent("config")
	app.metrics.ConfigReloads.WithLabelValues(result(err)).Inc()
	if err != nil {
		log.Warn("configuration reload failed, keeping previous settings: %v", err)
		return
	}

	if app.opts.LogLevel == "" {
		app.Logger().SetLevel(ParseLogLevel(cfg.Logging().Level))
	}
	app.applyKeymap(cfg)
	log.Info("configuration reloaded from %s", cfg.Path())
}

// applyKeymap resets the key bindings to the defaults plus the configured
// overrides, warning about bindings that name no command.
func (app *Application) applyKeymap(cfg *config.Config) {
	log := app.Logger().WithComponent("keymap")

	if err := app.keymap.Apply(cfg.Keymap()); err != nil {
		log.Warn("%v", err)
	}
	for _, b := range app.keymap.Unknown(app.engine.HasCommand) {
		log.Warn("key %s is bound to unknown command %s", b.Keys, b.Command)
	}
	for path, err := range cfg.ConfigErrors() {
		log.Warn("setting %s: %v", path, err)
	}
}

