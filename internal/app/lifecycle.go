package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// save writes markup to the output path.
func (app *Application) save(markup string) {
	app.saveMu.Lock()
	defer app.saveMu.Unlock()

	if err := os.WriteFile(app.opts.OutputPath, []byte(markup), 0o644); err != nil {
		app.Logger().WithComponent("app").Error("save %s: %v", app.opts.OutputPath, err)
		return
	}
	app.Logger().WithComponent("app").Debug("saved %d bytes to %s", len(markup), app.opts.OutputPath)
}

// Close delivers any pending content change, stops watching the
// configuration and releases the macro runtime. It is safe to call more
// than once.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	app.mu.Unlock()

	var errs []error
	if _, err := app.engine.Flush(); err != nil {
		errs = append(errs, &OperationError{Op: "flush", Err: err})
	}
	if err := app.config.Close(); err != nil {
		errs = append(errs, &OperationError{Op: "close", Target: "config watcher", Err: err})
	}
	if err := app.macros.Close(); err != nil {
		errs = append(errs, &OperationError{Op: "close", Target: "macros", Err: err})
	}
	return errors.Join(errs...)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
