package lua

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Host is the editor a macro drives.
type Host interface {
	Run(id string) (bool, error)
	CanRun(id string) bool
	Commands() []string
	Macro(fn func() error) error
	InsertText(text string) (bool, error)
	SetSelection(anchor, head int) error
	Search(query string) (int, error)
	Text() string
}

// Logger receives script output and macro failures.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Runtime loads macro scripts and runs their macros against a Host.
type Runtime struct {
	state  *State
	host   Host
	logger Logger

	mu      sync.RWMutex
	macros  map[string]*lua.LFunction
	sources map[string]string
	loading string
}

// Option configures a Runtime.
type Option func(*Runtime, *[]StateOption)

// WithLogger sets the logger for script output and macro failures.
func WithLogger(l Logger) Option {
	return func(r *Runtime, _ *[]StateOption) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds each script load and macro run.
func WithTimeout(d time.Duration) Option {
	return func(_ *Runtime, opts *[]StateOption) {
		*opts = append(*opts, WithExecutionTimeout(d))
	}
}

// New creates a runtime whose scripts drive host.
func New(host Host, opts ...Option) *Runtime {
	r := &Runtime{
		host:    host,
		logger:  nopLogger{},
		macros:  make(map[string]*lua.LFunction),
		sources: make(map[string]string),
	}
	var stateOpts []StateOption
	for _, opt := range opts {
		opt(r, &stateOpts)
	}

	r.state = NewState(stateOpts...)
	r.state.L.SetGlobal(ModuleName, r.module(r.state.L))
	return r
}

// LoadFile executes a script file, registering the macros it defines.
func (r *Runtime) LoadFile(ctx context.Context, path string) error {
	r.setLoading(path)
	defer r.setLoading("")

	if err := r.state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadString executes a script, registering the macros it defines. Name
// identifies the script in errors.
func (r *Runtime) LoadString(ctx context.Context, name, code string) error {
	r.setLoading(name)
	defer r.setLoading("")

	if err := r.state.DoString(ctx, code); err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	return nil
}

func (r *Runtime) setLoading(source string) {
	r.mu.Lock()
	r.loading = source
	r.mu.Unlock()
}

// Macros returns the names of the defined macros in sorted order.
func (r *Runtime) Macros() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.macros))
}

// Source returns the script that defined the macro.
func (r *Runtime) Source(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[name]
	return src, ok
}

// Run runs a macro. The commands it invokes are grouped by the host into a
// single undo step. Arguments are passed to the macro function.
func (r *Runtime) Run(ctx context.Context, name string, args ...any) error {
	r.mu.RLock()
	fn, ok := r.macros[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMacro, name)
	}

	err := r.host.Macro(func() error {
		return r.state.Do(ctx, func(L *lua.LState) error {
			luaArgs := make([]lua.LValue, len(args))
			for i, a := range args {
				luaArgs[i] = toLua(L, a)
			}
			return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, luaArgs...)
		})
	})
	if err != nil {
		r.logger.Warn("macro %s failed: %v", name, err)
		return fmt.Errorf("macro %s: %w", name, err)
	}
	return nil
}

// Close releases the Lua state.
func (r *Runtime) Close() error {
	return r.state.Close()
}
