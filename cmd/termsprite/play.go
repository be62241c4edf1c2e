package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/termsprite/internal/config"
	"github.com/vovakirdan/termsprite/internal/engine"
	"github.com/vovakirdan/termsprite/internal/platform/keys"
	"github.com/vovakirdan/termsprite/internal/platform/tcellterm"
	"github.com/vovakirdan/termsprite/internal/platform/tui"
	"github.com/vovakirdan/termsprite/internal/registry"
	"github.com/vovakirdan/termsprite/internal/storage"
)

var flagBackend string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a scene",
	Long: `Play a scene in the current terminal. The screen stays centered on the
focal entity while you steer it around the world.

Controls (default scene):
  Z/W/Up     - Move up
  S/Down     - Move down
  Q/A/Left   - Move left
  D/Right    - Move right
  Other key  - Stop
  Ctrl+S     - Screenshot to ~/.termsprite/screenshots
  Esc/Ctrl+C - Quit

Backends:
  tui    - Bubble Tea program on the alternate screen (default)
  tcell  - draws cells directly through tcell

Logs go to ~/.termsprite/termsprite.log while the scene is running.

Examples:
  termsprite play
  termsprite play --backend tcell
  termsprite play --scene ./desert.yaml --fps 30`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagBackend, "backend", "tui", "Display backend: tui, tcell")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog := fileLogger()
	defer closeLog()

	scene := loadScene(logger)

	store := openLibrary(logger)
	if store != nil {
		defer store.Close()
	}
	reg := newRegistry(store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	var (
		stats engine.Stats
		err   error
	)
	switch flagBackend {
	case "tui":
		stats, err = playTUI(ctx, scene, reg, logger)
	case "tcell":
		stats, err = playTcell(ctx, scene, reg, logger)
	default:
		err = fmt.Errorf("unknown backend %q (use tui or tcell)", flagBackend)
	}
	elapsed := time.Since(started)

	if err != nil {
		logger.Error("play failed", "scene", scene.Name, "error", err)
		fail("running scene", err)
	}

	logger.Info("scene ended", "scene", scene.Name, "ticks", stats.Ticks, "culled", stats.Culled, "duration", elapsed.Round(time.Millisecond))
	recordSession(store, scene.Name, stats, elapsed, logger)

	fmt.Printf("%s: %d ticks in %s, %d entities culled\n",
		scene.Name, stats.Ticks, elapsed.Round(time.Second), stats.Culled)
}

func playTUI(ctx context.Context, scene config.Scene, reg *registry.Registry, logger *log.Logger) (engine.Stats, error) {
	width, height := terminalSize()

	sink := tui.NewFrameSink(nil, false)
	// One row is kept for the help line
	sc, err := engine.Build(scene, reg, width, max(height-1, 0), sink, logger)
	if err != nil {
		return engine.Stats{}, err
	}

	return tui.Run(ctx, sc, sink, tui.Options{
		TickRate:      tickRate(scene),
		Keys:          keys.FromConfig(scene.Keys),
		ScreenshotDir: screenshotDir(),
		Logger:        logger,
	})
}

func playTcell(ctx context.Context, scene config.Scene, reg *registry.Registry, logger *log.Logger) (engine.Stats, error) {
	var stats engine.Stats
	err := tcellterm.WithDisplay(func(screen tcell.Screen) error {
		width, height := screen.Size()
		sc, err := engine.Build(scene, reg, width, height, tcellterm.NewSink(screen), logger)
		if err != nil {
			return err
		}

		stats, err = tcellterm.Run(ctx, screen, sc, tcellterm.Options{
			TickRate:      tickRate(scene),
			Keys:          keys.FromConfig(scene.Keys),
			ScreenshotDir: screenshotDir(),
			Logger:        logger,
		})
		return err
	})
	return stats, err
}

func recordSession(store *storage.Store, scene string, stats engine.Stats, d time.Duration, logger *log.Logger) {
	if store == nil || stats.Ticks == 0 {
		return
	}
	_, err := store.SaveSession(storage.Session{
		Scene:    scene,
		Ticks:    stats.Ticks,
		Culled:   stats.Culled,
		Duration: d,
	})
	if err != nil {
		logger.Warn("could not record session", "error", err)
	}
}
