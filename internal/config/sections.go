package config

import (
	"errors"
	"maps"
	"time"
)

// EditorConfig provides type-safe access to editor settings.
type EditorConfig struct {
	// SelectAllTimeout is how long a smart select-all cycle stays open.
	SelectAllTimeout time.Duration

	// PersistMinify compacts persisted markup.
	PersistMinify bool

	// FrameInterval is the period of the persistence frame scheduler.
	FrameInterval time.Duration

	// HistoryDepth bounds the undo stack.
	HistoryDepth int
}

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
}

// MacrosConfig provides type-safe access to macro settings.
type MacrosConfig struct {
	// Paths lists the Lua files loaded at startup.
	Paths []string
}

// Editor returns type-safe access to editor settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		SelectAllTimeout: c.getDurationOr("editor.selectAllTimeout", 2*time.Second),
		PersistMinify:    c.getBoolOr("editor.persistMinify", false),
		FrameInterval:    c.getDurationOr("editor.frameInterval", 16*time.Millisecond),
		HistoryDepth:     c.getIntOr("editor.historyDepth", 100),
	}
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
	}
}

// Macros returns type-safe access to macro settings.
func (c *Config) Macros() MacrosConfig {
	return MacrosConfig{
		Paths: c.getStringSliceOr("macros.paths", nil),
	}
}

// Keymap returns the user's key bindings, key combination to command
// identifier.
func (c *Config) Keymap() map[string]string {
	m, err := c.GetStringMap("keymap")
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError("keymap", err)
		}
		return map[string]string{}
	}
	return m
}

// Typed getters with defaults.
// These methods only return the default for ErrSettingNotFound silently.
// Type errors are recorded and return the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return append([]string(nil), defaultValue...)
	}
	return v
}

// recordConfigError stores configuration errors for later retrieval.
// Only the first error for each path is recorded.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns any configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	return maps.Clone(c.configErrors)
}
