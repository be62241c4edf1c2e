package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/termsprite/internal/assets"
	"github.com/vovakirdan/termsprite/internal/config"
	"github.com/vovakirdan/termsprite/internal/core"
	"github.com/vovakirdan/termsprite/internal/registry"
	"github.com/vovakirdan/termsprite/internal/storage"
)

// fail prints an error and exits.
func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}

// newLogger builds the command logger at the --log-level level.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "termsprite",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to ~/.termsprite/termsprite.log while the display owns the
// terminal. It falls back to discarding logs when the file cannot be opened.
func fileLogger() (*log.Logger, func()) {
	dir := config.Dir()
	if dir == "" {
		return newLogger(io.Discard), func() {}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "termsprite.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// loadScene loads the --scene file or the first scene on the search path.
func loadScene(logger *log.Logger) config.Scene {
	scene, source, err := config.LoadScene(flagScene)
	if err != nil {
		fail("loading scene", err)
	}
	logger.Debug("scene loaded", "scene", scene.Name, "source", source)
	return scene
}

// openLibrary opens the sprite library. Scenes still run without it, on
// files and built-in sprites only.
func openLibrary(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open sprite library", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// newRegistry resolves sprites through store (may be nil), then files, then
// the built-in assets.
func newRegistry(store *storage.Store) *registry.Registry {
	var lib registry.Library
	if store != nil {
		lib = store
	}
	return registry.New(lib, assets.Sprites, assets.Path)
}

// tickRate applies the --fps override.
func tickRate(scene config.Scene) int {
	if flagFPS > 0 {
		return flagFPS
	}
	return scene.TickRate
}

// terminalSize returns the size of stdout, or the default display size when
// stdout is not a terminal.
func terminalSize() (int, int) {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return cfg.ScreenW, cfg.ScreenH
}

func screenshotDir() string {
	dir := config.Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "screenshots")
}
