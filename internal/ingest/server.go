// Package ingest runs a local HTTP endpoint that accepts events from
// browsers and other processes and appends them to the project's store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/logging"
	"github.com/guckdev/hunch/internal/store"
)

const (
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 7331
	DefaultPath         = "/hunch/emit"
	DefaultMaxBodyBytes = 512000
)

// Options configures a Server. Zero values take the defaults above.
type Options struct {
	Host         string
	Port         int
	Path         string
	RegistryDir  string
	MaxBodyBytes int64

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = DefaultHost
	}
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 10 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 5 * time.Second
	}
	return o
}

// Server is an ingest endpoint bound to one loaded project.
type Server struct {
	opts    Options
	loaded  config.Loaded
	emitter *emitter.Emitter
	logger  *logging.Logger

	srv          *http.Server
	listener     net.Listener
	registration *Registration
}

// NewServer creates a Server. Port 0 lets the OS pick a free port; the
// chosen port is what gets registered.
func NewServer(opts Options, loaded config.Loaded, em *emitter.Emitter, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	opts = opts.withDefaults()

	writer := store.NewWriter(loaded.StoreDir(), logger)
	handler := NewHandler(loaded.Config, em, writer, logger, opts.MaxBodyBytes)

	return &Server{
		opts:    opts,
		loaded:  loaded,
		emitter: em,
		logger:  logger,
		srv: &http.Server{
			Handler:      NewRouter(handler, opts.Path),
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
	}
}

// Listen binds the socket and writes the registry entry.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln

	if s.opts.RegistryDir != "" {
		reg, err := Register(s.opts.RegistryDir, RegistryEntry{
			Version:    RegistryVersion,
			PID:        os.Getpid(),
			RootDir:    s.loaded.RootDir,
			ConfigPath: s.loaded.ConfigPath,
			Host:       s.opts.Host,
			Path:       s.opts.Path,
			Port:       s.Port(),
			StartedAt:  time.Now().UTC(),
			SessionID:  s.emitter.SessionID(),
		})
		if err != nil {
			ln.Close()
			return err
		}
		s.registration = reg
		s.logger.Debug("registered ingest server", logging.File(reg.Path))
	}
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Port returns the bound port, or 0 before Listen.
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// URL returns the full emit URL.
func (s *Server) URL() string {
	return "http://" + s.Addr() + s.opts.Path
}

// Registration returns the registry entry written by Listen, if any.
func (s *Server) Registration() *Registration {
	return s.registration
}

// Serve handles requests until ctx is done, then shuts down gracefully and
// removes the registry entry. Listen must have been called.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("ingest server is not listening")
	}
	defer s.registration.Remove()

	s.logger.Info("ingest server listening",
		logging.Addr(s.Addr()),
		logging.Path(s.opts.Path),
		logging.StoreDir(s.loaded.StoreDir()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down ingest server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown ingest server: %w", err)
	}
	s.logger.Info("ingest server stopped")
	return nil
}

// Run is Listen followed by Serve.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}
