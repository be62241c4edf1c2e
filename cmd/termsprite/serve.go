package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/termsprite/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the termsprite SSH server",
	Long: `Start an SSH server that plays the scene for every connecting user.

Each SSH connection gets its own scene: entities and animation state are
per session, sprites are loaded once and shared. Sessions are recorded in
the library database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.termsprite/host_key

Examples:
  termsprite serve                           # Listen on :23234 with auto-generated key
  termsprite serve --ssh :2222               # Listen on port 2222
  termsprite serve --host-key ./my_host_key  # Use specific host key
  termsprite serve --scene ./desert.yaml     # Serve a specific scene

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr)

	scene := loadScene(logger)
	store := openLibrary(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
	}

	server, err := tui.NewSSHServer(cfg, scene, newRegistry(store), store, logger)
	if err != nil {
		fail("creating server", err)
	}

	fmt.Printf("Starting termsprite SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh -t localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("serving", err)
	}
}
