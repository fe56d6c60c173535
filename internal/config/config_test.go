package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func load(t *testing.T, opts ...Option) *Config {
	t.Helper()
	c := New(opts...)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestDefaults(t *testing.T) {
	c := load(t, WithoutEnv())

	assert.Equal(t, EditorConfig{
		SelectAllTimeout: 2 * time.Second,
		PersistMinify:    false,
		FrameInterval:    16 * time.Millisecond,
		HistoryDepth:     100,
	}, c.Editor())
	assert.Equal(t, "info", c.Logging().Level)
	assert.Empty(t, c.Keymap())
	assert.Empty(t, c.Macros().Paths)
	assert.Nil(t, c.ConfigErrors())
}

func TestLoadTOML(t *testing.T) {
	fsys := memFS{"/cfg/config.toml": `
[editor]
selectAllTimeout = 1500
persistMinify = true

[logging]
level = "debug"

[keymap]
"Mod-Shift-l" = "selectWord"

[macros]
paths = ["a.lua"]
`}
	c := load(t, WithFS(fsys), WithFile("/cfg/config.toml"), WithoutEnv())

	editor := c.Editor()
	assert.Equal(t, 1500*time.Millisecond, editor.SelectAllTimeout)
	assert.True(t, editor.PersistMinify)
	assert.Equal(t, 100, editor.HistoryDepth)
	assert.Equal(t, "debug", c.Logging().Level)
	assert.Equal(t, map[string]string{"Mod-Shift-l": "selectWord"}, c.Keymap())
	assert.Equal(t, []string{"a.lua"}, c.Macros().Paths)
}

func TestLoadYAML(t *testing.T) {
	fsys := memFS{"/config.yaml": "editor:\n  historyDepth: 7\n  frameInterval: 5ms\n"}
	c := load(t, WithFS(fsys), WithFile("/config.yaml"), WithoutEnv())

	assert.Equal(t, 7, c.Editor().HistoryDepth)
	assert.Equal(t, 5*time.Millisecond, c.Editor().FrameInterval)
}

func TestLoadMissingFile(t *testing.T) {
	c := load(t, WithFS(memFS{}), WithFile("/none.toml"), WithoutEnv())
	assert.Equal(t, 100, c.Editor().HistoryDepth)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("INKWELL_LOG_LEVEL", "warn")
	t.Setenv("INKWELL_HISTORY_DEPTH", "12")

	fsys := memFS{"/config.toml": "[logging]\nlevel = \"debug\"\n"}
	c := load(t, WithFS(fsys), WithFile("/config.toml"))

	assert.Equal(t, "warn", c.Logging().Level)
	assert.Equal(t, 12, c.Editor().HistoryDepth)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"bad level", "[logging]\nlevel = \"loud\"\n", ErrValidationFailed},
		{"negative depth", "[editor]\nhistoryDepth = 0\n", ErrValidationFailed},
		{"bad duration", "[editor]\nselectAllTimeout = \"soon\"\n", ErrValidationFailed},
		{"wrong type", "[editor]\nframeInterval = true\n", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithFS(memFS{"/c.toml": tt.content}), WithFile("/c.toml"), WithoutEnv())
			err := c.Load(context.Background())
			assert.ErrorIs(t, err, tt.target)
			// Previous settings are kept.
			assert.Equal(t, 100, c.Editor().HistoryDepth)
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	c := New(WithFile("/config.ini"), WithoutEnv())
	assert.Error(t, c.Load(context.Background()))
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, New().Load(ctx), context.Canceled)
}

func TestKeymapTypeError(t *testing.T) {
	fsys := memFS{"/c.toml": "[keymap]\n\"Mod-b\" = 3\n"}
	c := load(t, WithFS(fsys), WithFile("/c.toml"), WithoutEnv())

	assert.Empty(t, c.Keymap())
	errs := c.ConfigErrors()
	require.Contains(t, errs, "keymap")
	assert.ErrorIs(t, errs["keymap"], ErrTypeMismatch)
}

func TestGetters(t *testing.T) {
	c := load(t, WithoutEnv())

	_, err := c.GetString("nope.nothing")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	_, err = c.GetBool("logging.level")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	d, err := c.GetDuration("editor.selectAllTimeout")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	m := c.Merged()
	m["logging"].(map[string]any)["level"] = "error"
	assert.Equal(t, "info", c.Logging().Level)
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath()
	assert.Equal(t, "config.toml", filepath.Base(p))
	assert.Equal(t, "inkwell", filepath.Base(filepath.Dir(p)))
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"info\"\n"), 0o644))

	c := load(t, WithFile(path), WithoutEnv(), WithReloadDebounce(10*time.Millisecond))
	require.NoError(t, c.Watch())
	t.Cleanup(func() { _ = c.Close() })

	var mu sync.Mutex
	var levels []string
	c.OnReload(func(c *Config, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			levels = append(levels, c.Logging().Level)
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(levels) > 0 && levels[len(levels)-1] == "debug"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatchWithoutFile(t *testing.T) {
	assert.Error(t, New().Watch())
	assert.NoError(t, New().Close())
}
