package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine to write.
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

func newApp(t *testing.T, opts Options) (*Application, *syncBuffer) {
	t.Helper()
	logs := &syncBuffer{}
	opts.LogOutput = logs
	opts.DisableEnv = true
	a, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, logs
}

func TestNewEmpty(t *testing.T) {
	a, _ := newApp(t, Options{})
	assert.Equal(t, "", a.Engine().Text())
	assert.Empty(t, a.Macros())

	id, ok := a.Keymap().Lookup("Mod-b")
	assert.True(t, ok)
	assert.Equal(t, "toggleBold", id)
}

func TestRunAndKeys(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "note.html", "<p>one</p><p>two</p>")

	reg := prometheus.NewRegistry()
	a, _ := newApp(t, Options{InputPath: in, Registerer: reg})
	require.NoError(t, a.Engine().SetSelection(1, 1))

	ok, err := a.HandleKey("Alt-Down")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two\none", a.Engine().Text())

	_, err = a.HandleKey("Mod-q")
	assert.ErrorIs(t, err, ErrUnboundKey)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics().Keys.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics().Keys.WithLabelValues("false")))

	require.NoError(t, a.RunAll([]string{"undo", "moveLineUp"}))
	assert.Equal(t, "one\ntwo", a.Engine().Text())

	err = a.RunAll([]string{"fly"})
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "fly", opErr.Target)
}

func TestMissingInput(t *testing.T) {
	_, err := New(context.Background(), Options{
		InputPath:  filepath.Join(t.TempDir(), "none.html"),
		LogOutput:  &bytes.Buffer{},
		DisableEnv: true,
	})
	assert.ErrorIs(t, err, ErrInitialization)
}

func TestConfigAndMacros(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "macros.lua", `
inkwell.macro("dup", function()
    inkwell.run("copyLineDown")
    inkwell.run("copyLineDown")
end)
`)
	cfg := writeFile(t, dir, "config.toml", `
[logging]
level = "debug"

[keymap]
"Mod-Shift-l" = "selectWord"
"Mod-j" = "jump"

[macros]
paths = ["`+filepath.ToSlash(script)+`"]
`)
	in := writeFile(t, dir, "note.html", "<p>x</p>")

	a, logs := newApp(t, Options{ConfigPath: cfg, InputPath: in})
	assert.Equal(t, []string{"dup"}, a.Macros())
	assert.Contains(t, logs.String(), "bound to unknown command jump")

	id, _ := a.Keymap().Lookup("Mod-Shift-L")
	assert.Equal(t, "selectWord", id)

	require.NoError(t, a.RunMacro(context.Background(), "dup"))
	assert.Equal(t, "x\nx\nx", a.Engine().Text())
	assert.Equal(t, 1, a.Engine().UndoDepth())
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics().MacroRuns.WithLabelValues("dup", "ok")))

	assert.Error(t, a.RunMacro(context.Background(), "missing"))
}

func TestInvalidConfigUsesDefaults(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "config.toml", "[logging]\nlevel = \"loud\"\n")
	a, logs := newApp(t, Options{ConfigPath: cfg})

	assert.Contains(t, logs.String(), "using default settings")
	assert.Equal(t, 100, a.Config().Editor().HistoryDepth)
}

func TestReadOnly(t *testing.T) {
	a, _ := newApp(t, Options{ReadOnly: true})
	_, err := a.Engine().InsertText("x")
	assert.ErrorIs(t, err, engine.ErrReadOnly)

	_, err = a.Run("selectAll")
	assert.NoError(t, err)
}

func TestAutosave(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.html")
	cfg := writeFile(t, dir, "config.toml", "[editor]\nframeInterval = \"5ms\"\n")
	a, _ := newApp(t, Options{ConfigPath: cfg, OutputPath: out})

	_, err := a.Engine().InsertText("hello")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == "<p>hello</p>"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatchReloadsKeymap(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.toml", "[keymap]\n\"Mod-k\" = \"deleteLine\"\n")
	a, logs := newApp(t, Options{ConfigPath: cfg, Watch: true})

	id, _ := a.Keymap().Lookup("Mod-k")
	assert.Equal(t, "deleteLine", id)

	writeFile(t, dir, "config.toml", "[keymap]\n\"Mod-k\" = \"selectWord\"\n")
	require.Eventually(t, func() bool {
		id, _ := a.Keymap().Lookup("Mod-k")
		return id == "selectWord"
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "configuration reloaded")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClose(t *testing.T) {
	a, _ := newApp(t, Options{})
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	_, err := a.Run("enter")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, a.RunMacro(context.Background(), "x"), ErrClosed)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "m.lua"), expandHome("~/m.lua"))
	assert.Equal(t, "/abs/m.lua", expandHome("/abs/m.lua"))
}
