package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/termsprite/internal/platform/keys"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show key bindings",
	Long: `Show the key bindings of the scene that 'play' would load. Bindings
come from the "keys" section of the scene file.

Examples:
  termsprite keys
  termsprite keys --scene ./desert.yaml`,
	Args: cobra.NoArgs,
	Run:  runKeys,
}

func runKeys(_ *cobra.Command, _ []string) {
	scene := loadScene(newLogger(os.Stderr))
	km := keys.FromConfig(scene.Keys)

	fmt.Printf("Key bindings - %s\n", scene.Name)
	fmt.Println()

	h := help.New()
	h.ShowAll = true
	fmt.Println(h.View(km))
	fmt.Println()
	fmt.Println("Any other key stops the focal entity.")
}
