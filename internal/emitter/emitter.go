// Package emitter turns call-site arguments plus a loaded config into a
// validated event. It never writes anything; persistence is the caller's job.
package emitter

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/env"
	"github.com/guckdev/hunch/internal/event"
)

// Emitter builds events. It is safe for concurrent use: all fields are set
// once in New.
type Emitter struct {
	runID     string
	sessionID string
	now       func() time.Time
	newID     func() string
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		e.now = now
	}
}

// WithIDGenerator replaces the event ID source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Emitter) {
		e.newID = newID
	}
}

// WithRunID pins the run ID instead of taking it from HUNCH_RUN_ID.
func WithRunID(id string) Option {
	return func(e *Emitter) {
		e.runID = id
	}
}

// New creates an Emitter. The run ID comes from HUNCH_RUN_ID or is generated
// once per Emitter; the session ID comes from HUNCH_SESSION_ID.
func New(vars env.Vars, opts ...Option) (*Emitter, error) {
	o, err := vars.Overrides()
	if err != nil {
		return nil, err
	}

	e := &Emitter{
		runID:     o.RunID,
		sessionID: o.SessionID,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	return e, nil
}

// RunID returns the run ID stamped on every event from this Emitter.
func (e *Emitter) RunID() string {
	return e.runID
}

// SessionID returns the session ID taken from HUNCH_SESSION_ID, if any.
func (e *Emitter) SessionID() string {
	return e.sessionID
}

// Emit validates the arguments and returns the event.
//
// Events below cfg.MinLevel, or emitted while cfg.Enabled is false, are
// still built and returned with Suppressed set; dropping them is up to the
// writer.
func (e *Emitter) Emit(cfg config.Config, level event.Level, message string, opts ...EmitOption) (event.Event, error) {
	spec := event.Spec{
		Level:     level,
		Message:   message,
		Service:   cfg.DefaultService,
		RunID:     e.runID,
		SessionID: e.sessionID,
	}
	for _, opt := range opts {
		opt(&spec)
	}

	if spec.Timestamp.IsZero() {
		spec.Timestamp = e.now()
	}
	if spec.ID == "" {
		spec.ID = e.newID()
	}
	spec.Suppressed = Suppressed(cfg, level)

	if cfg.Redact.Enabled {
		redacted, err := redact(cfg.Redact, spec)
		if err != nil {
			return event.Event{}, fmt.Errorf("%w: %w", event.ErrInvalidEvent, err)
		}
		spec = redacted
	}

	return event.New(spec)
}

// Suppressed reports whether an event at level should be flagged under cfg.
func Suppressed(cfg config.Config, level event.Level) bool {
	if !cfg.Enabled {
		return true
	}
	return cfg.HasThreshold() && !level.AtLeast(cfg.MinLevel)
}
