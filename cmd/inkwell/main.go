// Package main is the entry point for the Inkwell note engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/inkwell/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options

	commands []string
	keys     []string
	macros   []string
	search   string
	outPath  string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if err := apply(ctx, application, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	markup, err := application.Markup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.outPath == "" {
		fmt.Println(markup)
		return 0
	}
	if err := os.WriteFile(opts.outPath, []byte(markup), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// apply runs the search, then key presses, commands and macros in that
// order.
func apply(ctx context.Context, application *app.Application, opts cliOptions) error {
	if opts.search != "" {
		n, err := application.Engine().Search(opts.search)
		if err != nil {
			return err
		}
		application.Logger().Info("%d matches for %q", n, opts.search)
	}
	for _, key := range opts.keys {
		if _, err := application.HandleKey(key); err != nil {
			return err
		}
	}
	if err := application.RunAll(opts.commands); err != nil {
		return err
	}
	for _, name := range opts.macros {
		if err := application.RunMacro(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func parseFlags() cliOptions {
	var opts cliOptions
	var commands, keys, scripts, macros string
	var showVersion, showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.outPath, "out", "", "Write the resulting markup to this file instead of stdout")
	flag.StringVar(&opts.outPath, "o", "", "Output file (shorthand)")
	flag.StringVar(&commands, "run", "", "Comma-separated command identifiers to run")
	flag.StringVar(&keys, "keys", "", "Comma-separated key combinations to press")
	flag.StringVar(&scripts, "script", "", "Comma-separated Lua macro files to load")
	flag.StringVar(&macros, "macro", "", "Comma-separated macros to run")
	flag.StringVar(&opts.search, "search", "", "Search query to highlight before running commands")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to the configured level")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the note in read-only mode")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open the note in read-only mode (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inkwell - rich-text note engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkwell [options] [note.html]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkwell -run moveLineDown note.html        Move the first line down\n")
		fmt.Fprintf(os.Stderr, "  inkwell -keys Mod-a,Mod-b -o out.html n.html Bold the whole note\n")
		fmt.Fprintf(os.Stderr, "  inkwell -script m.lua -macro tidy note.html Run a Lua macro\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Inkwell %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one note, got %d\n", flag.NArg())
		os.Exit(1)
	}
	// Structured logs when stderr is piped to a collector.
	opts.LogJSON = !term.IsTerminal(int(os.Stderr.Fd()))
	opts.InputPath = flag.Arg(0)
	opts.commands = splitList(commands)
	opts.keys = splitList(keys)
	opts.Scripts = splitList(scripts)
	opts.macros = splitList(macros)
	return opts
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
