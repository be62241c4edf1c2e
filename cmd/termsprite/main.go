// termsprite renders animated ASCII sprites in the terminal. The screen
// follows a focal entity across a large world while the others move around it.
//
// Usage:
//
//	termsprite play              - Play a scene interactively
//	termsprite render            - Simulate a scene headless and print the last frame
//	termsprite import <path>     - Import sprite JSON files into the library
//	termsprite sprites           - List sprites in the library and the built-in ones
//	termsprite remove <name>     - Remove a sprite from the library
//	termsprite inspect <sprite>  - Print a sprite's frames
//	termsprite sessions          - Show recent play sessions
//	termsprite keys              - Show the key bindings of a scene
//	termsprite serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Override the scene's tick rate (0 = use the scene's)
//	--db <path>          - Set database path (default: ~/.termsprite/library.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagLogLevel string
	flagScene    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "termsprite",
	Short: "termsprite - Animated ASCII sprites in your terminal",
	Long: `termsprite draws animated, colored ASCII sprites on a terminal screen.
The view is centered on a focal entity you steer around a large world;
other entities are drawn relative to it and culled when off screen.

Available commands:
  play      - Play a scene interactively
  render    - Run a scene headless and print the last frame
  import    - Import sprite files into the library
  sprites   - List available sprites
  remove    - Remove a sprite from the library
  inspect   - Print the frames of a sprite
  sessions  - Show recent play sessions
  keys      - Show key bindings
  serve     - Start SSH server for remote play

Examples:
  termsprite play
  termsprite play --scene ./desert.yaml --backend tcell
  termsprite render --ticks 30 --plain
  termsprite import ./sprites/
  termsprite inspect camel
  termsprite serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = scene's tick_rate)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.termsprite/library.db", "Path to sprite library database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagScene, "scene", "", "Path to scene YAML (default: search ~/.termsprite, ./configs, built-in)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(spritesCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(serveCmd)
}
