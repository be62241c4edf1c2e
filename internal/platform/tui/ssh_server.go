package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/termsprite/internal/config"
	"github.com/vovakirdan/termsprite/internal/engine"
	"github.com/vovakirdan/termsprite/internal/platform/keys"
	"github.com/vovakirdan/termsprite/internal/registry"
	"github.com/vovakirdan/termsprite/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.termsprite/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate overrides the scene's tick rate when positive.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves one independent scene per SSH session. Sprites are
// shared through the registry; entities and cursors are per session.
type SSHServer struct {
	config SSHServerConfig
	scene  config.Scene
	reg    *registry.Registry
	server *ssh.Server
	store  *storage.Store // may be nil
	logger *log.Logger

	mu   sync.Mutex
	runs map[ssh.Session]*sessionRun
}

// sessionRun is the scene a session is playing, recorded when the session
// handler returns.
type sessionRun struct {
	scene   *engine.Scene
	started time.Time
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, scene config.Scene, reg *registry.Registry, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "termsprite-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		scene:  scene,
		reg:    reg,
		store:  store,
		logger: logger,
		runs:   make(map[ssh.Session]*sessionRun),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir := config.Dir()
		if dir == "" {
			return nil, errors.New("tui: cannot get home directory for the host key")
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.recordingMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler builds a fresh scene sized to the session's PTY.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "termsprite needs a terminal: connect with ssh -t")
		return nil, nil
	}

	painter := NewPainter(bubbletea.MakeRenderer(sess))
	sink := NewFrameSink(painter, false)

	logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
	scene, err := engine.Build(s.scene, s.reg, pty.Window.Width, max(pty.Window.Height-1, 0), sink, logger)
	if err != nil {
		logger.Error("cannot build scene", "error", err)
		wish.Fatalln(sess, "cannot build scene:", err)
		return nil, nil
	}

	tickRate := s.scene.TickRate
	if s.config.TickRate > 0 {
		tickRate = s.config.TickRate
	}

	s.track(sess, &sessionRun{scene: scene, started: time.Now(), logger: logger})
	model := NewModel(sess.Context(), scene, sink, Options{
		TickRate: tickRate,
		Keys:     keys.FromConfig(s.scene.Keys),
		Logger:   logger,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

func (s *SSHServer) track(sess ssh.Session, run *sessionRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[sess] = run
}

func (s *SSHServer) take(sess ssh.Session) *sessionRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[sess]
	delete(s.runs, sess)
	return run
}

// recordingMiddleware records the session's scene once the program is gone,
// whether the player quit, the client disconnected or the server shut down.
func (s *SSHServer) recordingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		next(sess)
		if run := s.take(sess); run != nil {
			s.record(run.scene.Name(), run.scene.Stats(), time.Since(run.started), run.logger)
		}
	}
}

func (s *SSHServer) record(scene string, st engine.Stats, d time.Duration, logger *log.Logger) {
	logger.Info("scene ended", "scene", scene, "ticks", st.Ticks, "culled", st.Culled, "duration", d.Round(time.Millisecond))
	if s.store == nil {
		return
	}
	_, err := s.store.SaveSession(storage.Session{
		Scene:    scene,
		Ticks:    st.Ticks,
		Culled:   st.Culled,
		Duration: d,
	})
	if err != nil {
		logger.Warn("could not record session", "error", err)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until an interrupt.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "scene", s.scene.Name)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
	case err := <-errc:
		return fmt.Errorf("tui: ssh server: %w", err)
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
