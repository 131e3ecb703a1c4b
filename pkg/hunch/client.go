package hunch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"syscall"

	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/event"
	"github.com/guckdev/hunch/internal/logging"
	"github.com/guckdev/hunch/internal/store"
)

type appender interface {
	Append(ctx context.Context, ev event.Event) (bool, error)
}

// Client emits events and appends them to the project's store. The config
// is loaded once in NewClient. A Client is safe for concurrent use.
type Client struct {
	loaded  Loaded
	emitter *emitter.Emitter
	writer  appender
	logger  *logging.Logger
	strict  bool

	mu             sync.Mutex
	writesDisabled bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger routes the Client's own diagnostics to l.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = &logging.Logger{Logger: l}
		}
	}
}

// NewClient loads the config and prepares a writer for its store directory.
func NewClient(opts Options, clientOpts ...ClientOption) (*Client, error) {
	vars := opts.vars()

	loaded, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	overrides, err := vars.Overrides()
	if err != nil {
		return nil, err
	}
	em, err := emitter.New(vars)
	if err != nil {
		return nil, err
	}

	c := &Client{
		loaded:  loaded,
		emitter: em,
		logger:  logging.Default(),
		strict:  overrides.Strict(),
	}
	for _, opt := range clientOpts {
		opt(c)
	}
	c.writer = store.NewWriter(loaded.StoreDir(), c.logger)
	return c, nil
}

func (c *Client) Config() Config     { return c.loaded.Config }
func (c *Client) RootDir() string    { return c.loaded.RootDir }
func (c *Client) ConfigPath() string { return c.loaded.ConfigPath }
func (c *Client) StoreDir() string   { return c.loaded.StoreDir() }
func (c *Client) RunID() string      { return c.emitter.RunID() }

// WritesDisabled reports whether a permission error has switched writing off.
func (c *Client) WritesDisabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writesDisabled
}

// Emit validates and appends one event. Suppressed events, and every event
// while the project is disabled, are returned but not written.
//
// A permission error (EACCES, EPERM, EROFS) turns writing off for the rest
// of the Client's life and is logged once, unless HUNCH_STRICT_WRITE_ERRORS
// is set, in which case it is returned.
func (c *Client) Emit(ctx context.Context, level Level, message string, opts ...EmitOption) (Event, error) {
	ev, err := c.emitter.Emit(c.loaded.Config, level, message, opts...)
	if err != nil {
		return Event{}, err
	}
	if ev.Suppressed || c.WritesDisabled() {
		return ev, nil
	}

	if _, err := c.writer.Append(ctx, ev); err != nil {
		if c.strict || !isPermission(err) {
			return ev, err
		}
		c.disableWrites(ctx, err)
	}
	return ev, nil
}

func (c *Client) disableWrites(ctx context.Context, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writesDisabled {
		return
	}
	c.writesDisabled = true
	c.logger.WarnContext(ctx, "hunch store is not writable, disabling writes",
		logging.StoreDir(c.loaded.StoreDir()), logging.Error(err))
}

func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS)
}

func (c *Client) Trace(ctx context.Context, message string, opts ...EmitOption) (Event, error) {
	return c.Emit(ctx, LevelTrace, message, opts...)
}

func (c *Client) Debug(ctx context.Context, message string, opts ...EmitOption) (Event, error) {
	return c.Emit(ctx, LevelDebug, message, opts...)
}

func (c *Client) Info(ctx context.Context, message string, opts ...EmitOption) (Event, error) {
	return c.Emit(ctx, LevelInfo, message, opts...)
}

func (c *Client) Warn(ctx context.Context, message string, opts ...EmitOption) (Event, error) {
	return c.Emit(ctx, LevelWarn, message, opts...)
}

func (c *Client) Error(ctx context.Context, message string, opts ...EmitOption) (Event, error) {
	return c.Emit(ctx, LevelError, message, opts...)
}

func (c *Client) Fatal(ctx context.Context, message string, opts ...EmitOption) (Event, error) {
	return c.Emit(ctx, LevelFatal, message, opts...)
}
