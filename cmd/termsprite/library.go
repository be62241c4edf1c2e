package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/termsprite/internal/assets"
	"github.com/vovakirdan/termsprite/internal/core"
	"github.com/vovakirdan/termsprite/internal/platform/tui"
	"github.com/vovakirdan/termsprite/internal/render"
	"github.com/vovakirdan/termsprite/internal/sprite"
	"github.com/vovakirdan/termsprite/internal/storage"
)

var flagImportName string

var importCmd = &cobra.Command{
	Use:   "import <file|dir>...",
	Short: "Import sprite files into the library",
	Long: `Validate sprite JSON files and store them in the sprite library. A
directory imports every .json file in it. Sprites are stored under their
"name" field, or the file name when it is empty; importing a name again
replaces it.

Scenes resolve sprite names through the library first, then file paths,
then the built-in sprites.

Examples:
  termsprite import ./camel.json
  termsprite import ./sprites/
  termsprite import ./hero.json --name player`,
	Args: cobra.MinimumNArgs(1),
	Run:  runImport,
}

var spritesCmd = &cobra.Command{
	Use:   "sprites",
	Short: "List available sprites",
	Long: `List the sprites in the library and the ones built into termsprite.

Examples:
  termsprite sprites
  termsprite sprites --db ./library.db`,
	Args: cobra.NoArgs,
	Run:  runSprites,
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a sprite from the library",
	Long: `Remove a sprite from the library. Built-in sprites cannot be removed;
a library sprite with the same name only shadows them.

Examples:
  termsprite remove camel`,
	Args: cobra.ExactArgs(1),
	Run:  runRemove,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <sprite>",
	Short: "Print the frames of a sprite",
	Long: `Print a sprite's static frame and every frame of its animations, with
colors. The sprite is resolved like in a scene: library name, file path,
then built-in name.

Examples:
  termsprite inspect camel
  termsprite inspect ./hero.json`,
	Args: cobra.ExactArgs(1),
	Run:  runInspect,
}

func init() {
	importCmd.Flags().StringVar(&flagImportName, "name", "", "Store a single sprite under this name")
}

func runImport(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr)

	files, err := spriteFiles(args)
	if err != nil {
		fail("importing", err)
	}
	if flagImportName != "" && len(files) != 1 {
		fail("importing", fmt.Errorf("--name needs exactly one file, got %d", len(files)))
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening sprite library", err)
	}
	defer store.Close()

	imported := 0
	for _, path := range files {
		name, err := importSprite(store, path, flagImportName)
		if err != nil {
			logger.Error("skipped", "file", path, "error", err)
			continue
		}
		logger.Debug("imported", "file", path, "sprite", name)
		fmt.Printf("Imported %s from %s\n", name, path)
		imported++
	}

	if imported < len(files) {
		fmt.Fprintf(os.Stderr, "%d of %d files failed to import\n", len(files)-imported, len(files))
		os.Exit(1)
	}
}

// spriteFiles expands directories into their .json files.
func spriteFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.json"))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no .json files in %s", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// importSprite validates one file and stores it. The stored name is name,
// the sprite's own name or the file stem, in that order.
func importSprite(store *storage.Store, path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s, err := sprite.Parse(path, data)
	if err != nil {
		return "", err
	}

	if name == "" {
		name = s.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := store.SaveSprite(name, path, data, s.AnimationNames()); err != nil {
		return "", err
	}
	return name, nil
}

func runSprites(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening sprite library", err)
	}
	defer store.Close()

	entries, err := store.ListSprites()
	if err != nil {
		fail("listing sprites", err)
	}

	fmt.Println("Library")
	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("  No sprites imported yet. Use 'termsprite import <file>' to add some.")
	} else {
		fmt.Printf("  %-16s  %-24s  %-16s  %s\n", "Name", "Animations", "Imported", "Origin")
		fmt.Printf("  %-16s  %-24s  %-16s  %s\n", "----", "----------", "--------", "------")
		for _, e := range entries {
			anims := strings.Join(e.Animations, ",")
			if anims == "" {
				anims = "-"
			}
			fmt.Printf("  %-16s  %-24s  %-16s  %s\n", e.Name, anims, e.ImportedAt.Format("2006-01-02 15:04"), e.Origin)
		}
	}

	fmt.Println()
	fmt.Println("Built-in")
	fmt.Println()
	for _, name := range assets.Names() {
		fmt.Printf("  %s\n", name)
	}
}

func runRemove(_ *cobra.Command, args []string) {
	name := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening sprite library", err)
	}
	defer store.Close()

	removed, err := store.RemoveSprite(name)
	if err != nil {
		fail("removing sprite", err)
	}
	if !removed {
		fmt.Fprintf(os.Stderr, "Error: no sprite %q in the library\n", name)
		fmt.Fprintln(os.Stderr, "Run 'termsprite sprites' to see imported sprites.")
		os.Exit(1)
	}
	fmt.Printf("Removed %s\n", name)
}

var inspectTitleStyle = lipgloss.NewStyle().Bold(true)

func runInspect(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr)

	store := openLibrary(logger)
	if store != nil {
		defer store.Close()
	}

	s, err := newRegistry(store).Get(args[0])
	if err != nil {
		fail("loading sprite", err)
	}

	fmt.Println(inspectTitleStyle.Render(fmt.Sprintf("%s (static, %dx%d)", s.Name, s.Static.Width(), s.Static.Height())))
	fmt.Println(frameString(s.Static, ""))

	for _, a := range s.Animations() {
		for i, f := range a.Frames {
			fmt.Println()
			fmt.Println(inspectTitleStyle.Render(fmt.Sprintf("%s frame %d/%d", a.Name, i+1, a.Len())))
			fmt.Println(frameString(f, fmt.Sprintf("%d", i+1)))
		}
	}
}

// frameString draws f inside a one-cell border with label on the top edge,
// cut to the frame width.
func frameString(f sprite.Frame, label string) string {
	w, h := f.Width()+2, f.Height()+2
	buf := core.NewScreen(w, h)
	buf.DrawBox(buf.Bounds())
	if r := []rune(label); len(r) > w-2 {
		label = string(r[:w-2])
	}
	buf.DrawText(1, 0, label)
	render.DrawFrame(buf, f, 1, 1)
	return tui.RenderScreen(buf)
}
