// Package config provides configuration management for Inkwell.
//
// Settings are assembled from layers, each overriding the one before:
//
//  1. Built-in defaults
//  2. The configuration file (TOML or YAML, chosen by extension)
//  3. Environment variables (INKWELL_*)
//
// # Basic Usage
//
//	cfg := config.New(config.WithFile(config.DefaultPath()))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//
//	editor := cfg.Editor()
//	timeout := editor.SelectAllTimeout
//
// # Configuration Files
//
//	# ~/.config/inkwell/config.toml
//	[editor]
//	selectAllTimeout = "2s"
//	persistMinify = true
//
//	[logging]
//	level = "debug"
//
//	[keymap]
//	"Mod-Shift-l" = "selectWord"
//
//	[macros]
//	paths = ["~/.config/inkwell/macros.lua"]
//
// # Live Reload
//
// Watch observes the configuration file; each change reloads every layer
// and calls the OnReload handlers. A reload that fails keeps the previous
// settings.
//
// # Error Handling
//
//   - ErrSettingNotFound: setting path doesn't exist
//   - ErrTypeMismatch: value type doesn't match the expected type
//   - ErrValidationFailed: value outside its allowed range
package config
