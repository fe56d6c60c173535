package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dshills/inkwell/internal/config/loader"
	"github.com/dshills/inkwell/internal/config/watcher"
)

// ReloadHandler is called after the configuration file changed. err is
// non-nil when the reload failed and the previous settings were kept.
type ReloadHandler func(c *Config, err error)

// Config provides unified access to the Inkwell configuration.
// It manages configuration loading, validation and live reloading.
type Config struct {
	mu sync.RWMutex

	// Merged configuration of all layers
	merged map[string]any

	// Configuration sources
	path      string
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool

	// File watcher for live reload
	watcher  *watcher.Watcher
	debounce time.Duration
	handlers []ReloadHandler

	// configErrors stores errors encountered during configuration access.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the configuration file. A missing file is not an error.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFS sets the file system the configuration file is read from.
func WithFS(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix sets the prefix of environment variables read as settings.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithoutEnv disables the environment variable layer.
func WithoutEnv() Option {
	return func(c *Config) {
		c.useEnv = false
	}
}

// WithReloadDebounce sets the quiet period before a file change reloads.
func WithReloadDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// New creates a new Config holding the defaults. Call Load to read the
// file and environment layers.
func New(opts ...Option) *Config {
	c := &Config{
		merged:    defaultConfig(),
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
		debounce:  watcher.DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads every layer and replaces the current settings. On error the
// current settings are unchanged.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	merged := defaultConfig()

	if c.path != "" {
		l, err := loader.ForPath(c.fs, c.path)
		if err != nil {
			return err
		}
		data, err := l.Load()
		if err != nil {
			return err
		}
		loader.DeepMerge(merged, data)
	}

	if c.useEnv {
		data, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		loader.DeepMerge(merged, data)
	}

	if err := validate(merged); err != nil {
		return err
	}

	c.mu.Lock()
	c.merged = merged
	c.configErrors = nil
	c.mu.Unlock()
	return nil
}

// Path returns the configuration file path.
func (c *Config) Path() string {
	return c.path
}

// Watch starts reloading the configuration whenever its file changes.
func (c *Config) Watch() error {
	if c.path == "" {
		return errors.New("no configuration file to watch")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != nil {
		return nil
	}
	w, err := watcher.New(watcher.WithDebounce(c.debounce))
	if err != nil {
		return fmt.Errorf("starting config watcher: %w", err)
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", c.path, err)
	}
	w.OnChange(c.handleFileChange)
	c.watcher = w
	return nil
}

// OnReload registers a handler called after each file change.
func (c *Config) OnReload(h ReloadHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Close stops watching the configuration file.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}

// handleFileChange handles file change events from the watcher.
func (c *Config) handleFileChange(watcher.Event) {
	err := c.Load(context.Background())

	c.mu.RLock()
	handlers := append([]ReloadHandler(nil), c.handlers...)
	c.mu.RUnlock()

	for _, h := range handlers {
		h(c, err)
	}
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetByPath(c.merged, path)
}

// Merged returns a copy of the merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", notFound(path)
	}
	return toString(path, v)
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, notFound(path)
	}
	return toInt(path, v)
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, notFound(path)
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration and integers are taken as milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, notFound(path)
	}
	return toDuration(path, v)
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, notFound(path)
	}

	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// GetStringMap returns a table of strings at the given path.
func (c *Config) GetStringMap(path string) (map[string]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, notFound(path)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "map[string]string", Actual: typeName(v)}
	}
	result := make(map[string]string, len(m))
	for k, item := range m {
		s, ok := item.(string)
		if !ok {
			return nil, &TypeError{Path: path + "." + k, Expected: "string", Actual: typeName(item)}
		}
		result[k] = s
	}
	return result, nil
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "inkwell", "config.toml")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"selectAllTimeout": "2s",
			"persistMinify":    false,
			"frameInterval":    "16ms",
			"historyDepth":     100,
		},
		"logging": map[string]any{
			"level": "info",
		},
		"keymap": map[string]any{},
		"macros": map[string]any{
			"paths": []any{},
		},
	}
}

var logLevels = []string{"debug", "info", "warn", "error"}

// validate checks the settings whose values are constrained.
func validate(m map[string]any) error {
	var errs []error

	for _, path := range []string{"editor.selectAllTimeout", "editor.frameInterval"} {
		v, _ := loader.GetByPath(m, path)
		d, err := toDuration(path, v)
		switch {
		case err != nil:
			errs = append(errs, err)
		case d <= 0:
			errs = append(errs, &ValidationError{Path: path, Message: "must be positive", Value: v})
		}
	}

	v, _ := loader.GetByPath(m, "editor.historyDepth")
	if n, err := toInt("editor.historyDepth", v); err != nil {
		errs = append(errs, err)
	} else if n < 1 {
		errs = append(errs, &ValidationError{Path: "editor.historyDepth", Message: "must be at least 1", Value: v})
	}

	v, _ = loader.GetByPath(m, "logging.level")
	if s, err := toString("logging.level", v); err != nil {
		errs = append(errs, err)
	} else if !isLogLevel(s) {
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "must be one of " + strings.Join(logLevels, ", "),
			Value:   v,
		})
	}

	return errors.Join(errs...)
}

func isLogLevel(s string) bool {
	for _, l := range logLevels {
		if strings.EqualFold(s, l) {
			return true
		}
	}
	return false
}

func toString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

func toInt(path string, v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

func toDuration(path string, v any) (time.Duration, error) {
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &ValidationError{Path: path, Message: "is not a valid duration", Value: v}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// typeName returns a human-readable type name.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
