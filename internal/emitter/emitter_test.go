package emitter

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/env"
	"github.com/guckdev/hunch/internal/event"
)

var fixedTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestEmitter(t *testing.T, vars env.Vars) *Emitter {
	t.Helper()
	e, err := New(vars,
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "evt-fixed" }),
	)
	require.NoError(t, err)
	return e
}

func TestNew_RunAndSessionFromEnv(t *testing.T) {
	e := newTestEmitter(t, env.Vars{env.RunID: "run-42", env.SessionID: "sess-7"})
	assert.Equal(t, "run-42", e.RunID())

	ev, err := e.Emit(config.Default(), event.LevelInfo, "hello")
	require.NoError(t, err)
	assert.Equal(t, "run-42", ev.RunID)
	assert.Equal(t, "sess-7", ev.SessionID)
}

func TestNew_GeneratesRunIDOnce(t *testing.T) {
	e := newTestEmitter(t, env.Empty())
	require.NotEmpty(t, e.RunID())

	a, err := e.Emit(config.Default(), event.LevelInfo, "a")
	require.NoError(t, err)
	b, err := e.Emit(config.Default(), event.LevelInfo, "b")
	require.NoError(t, err)
	assert.Equal(t, a.RunID, b.RunID)

	pinned, err := New(env.Empty(), WithRunID("pinned"))
	require.NoError(t, err)
	assert.Equal(t, "pinned", pinned.RunID())
}

func TestEmit_Defaults(t *testing.T) {
	e := newTestEmitter(t, env.Empty())

	ev, err := e.Emit(config.Default(), event.LevelWarn, "  disk almost full  ")
	require.NoError(t, err)

	assert.Equal(t, "evt-fixed", ev.ID)
	assert.Equal(t, fixedTime, ev.Timestamp)
	assert.Equal(t, "disk almost full", ev.Message)
	assert.Equal(t, config.DefaultService, ev.Service)
	assert.Equal(t, event.DefaultType, ev.Type)
	assert.Equal(t, event.SourceUnknown, ev.Source.Kind)
	assert.False(t, ev.Suppressed)
}

func TestEmit_Options(t *testing.T) {
	e := newTestEmitter(t, env.Vars{env.SessionID: "env-session"})
	ts := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)

	ev, err := e.Emit(config.Default(), event.LevelError, "payment failed",
		WithSource(event.Source{Kind: event.SourceProcess, Name: "billing"}),
		WithData(map[string]any{"amount": 12.5, "retry": true}),
		WithTags(map[string]string{"region": "eu"}),
		WithType("metric"),
		WithService("billing"),
		WithSessionID("call-session"),
		WithTrace("trace-1", "span-1"),
		WithTimestamp(ts),
		WithID("custom-id"),
	)
	require.NoError(t, err)

	assert.Equal(t, "custom-id", ev.ID)
	assert.Equal(t, ts, ev.Timestamp)
	assert.Equal(t, "metric", ev.Type)
	assert.Equal(t, "billing", ev.Service)
	assert.Equal(t, "call-session", ev.SessionID)
	assert.Equal(t, "trace-1", ev.TraceID)
	assert.Equal(t, "span-1", ev.SpanID)
	assert.Equal(t, event.Source{Kind: event.SourceProcess, Name: "billing"}, ev.Source)
	assert.Equal(t, 12.5, ev.Data["amount"])
	assert.Equal(t, "eu", ev.Tags["region"])
}

func TestEmit_EmptyServiceOptionKeepsDefault(t *testing.T) {
	e := newTestEmitter(t, env.Empty())
	cfg := config.Default()
	cfg.DefaultService = "api"

	ev, err := e.Emit(cfg, event.LevelInfo, "x", WithService(""))
	require.NoError(t, err)
	assert.Equal(t, "api", ev.Service)
}

func TestEmit_InvalidEvent(t *testing.T) {
	e := newTestEmitter(t, env.Empty())

	tests := []struct {
		name    string
		level   event.Level
		message string
		opts    []EmitOption
	}{
		{"empty message", event.LevelInfo, "", nil},
		{"whitespace message", event.LevelInfo, " \t\n ", nil},
		{"zero level", 0, "hi", nil},
		{"out of range level", event.Level(12), "hi", nil},
		{"non-scalar data", event.LevelInfo, "hi", []EmitOption{WithData(map[string]any{"list": []int{1}})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Emit(config.Default(), tt.level, tt.message, tt.opts...)
			assert.ErrorIs(t, err, event.ErrInvalidEvent)
		})
	}
}

func TestEmit_MessageIsTrimmedInput(t *testing.T) {
	e := newTestEmitter(t, env.Empty())
	faker := gofakeit.New(11)

	for i := 0; i < 50; i++ {
		msg := faker.Sentence(6)
		ev, err := e.Emit(config.Default(), event.LevelInfo, "\n  "+msg+"\t")
		require.NoError(t, err)
		assert.Equal(t, msg, ev.Message)
	}
}

func TestEmit_Threshold(t *testing.T) {
	e := newTestEmitter(t, env.Empty())
	cfg := config.Default()
	cfg.MinLevel = event.LevelWarn

	for _, level := range event.Levels() {
		ev, err := e.Emit(cfg, level, "msg")
		require.NoError(t, err)
		assert.Equal(t, level < event.LevelWarn, ev.Suppressed, level.String())
	}
}

func TestEmit_DisabledConfigSuppresses(t *testing.T) {
	e := newTestEmitter(t, env.Empty())
	cfg := config.Default()
	cfg.Enabled = false

	ev, err := e.Emit(cfg, event.LevelFatal, "msg")
	require.NoError(t, err)
	assert.True(t, ev.Suppressed)
}

func TestSuppressed_NoThreshold(t *testing.T) {
	cfg := config.Default()
	for _, level := range event.Levels() {
		assert.False(t, Suppressed(cfg, level))
	}
}
