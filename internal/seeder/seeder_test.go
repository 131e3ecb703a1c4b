package seeder

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/env"
	"github.com/guckdev/hunch/internal/event"
	"github.com/guckdev/hunch/internal/store"
)

func TestGenerate(t *testing.T) {
	f := gofakeit.New(42)

	for _, kind := range append(Kinds, "unknown") {
		t.Run(kind, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				g := Generate(f, kind)
				assert.True(t, g.Level.Valid())
				assert.NotEmpty(t, g.Message)
				assert.True(t, g.Source.Kind.Valid())
				for k, v := range g.Data {
					assert.Truef(t, event.IsScalar(v), "data %q is %T", k, v)
				}
				if kind == "unknown" {
					assert.Equal(t, "http", g.Type)
				} else {
					assert.Equal(t, kind, g.Type)
				}
			}
		})
	}
}

func TestEventTime(t *testing.T) {
	f := gofakeit.New(1)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	for i := 0; i < 100; i++ {
		ts := eventTime(f, now, window, i, 100)
		assert.False(t, ts.After(now), "event %d after now", i)
		assert.False(t, ts.Before(now.Add(-window)), "event %d before window", i)
	}

	assert.Equal(t, now, eventTime(f, now, 0, 3, 10))
}

func newRunner(t *testing.T, cfg Config, project config.Config) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	em, err := emitter.New(env.Empty(), emitter.WithRunID("seed-run"))
	require.NoError(t, err)
	return NewRunner(cfg, project, em, store.NewWriter(dir, nil), nil), dir
}

func TestRunner_Run(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 40
	cfg.Service = "demo"
	cfg.Seed = 7

	r, dir := newRunner(t, cfg, config.Default())
	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Written: 40}, sum)

	res, err := store.Search(context.Background(), dir, store.Query{})
	require.NoError(t, err)
	require.Len(t, res.Events, 40)

	sessions := map[string]bool{}
	for _, ev := range res.Events {
		assert.Equal(t, "demo", ev.Service)
		assert.Equal(t, "seed-run", ev.RunID)
		sessions[ev.SessionID] = true
	}
	assert.Len(t, sessions, 3)
}

func TestRunner_RespectsMinLevel(t *testing.T) {
	project := config.Default()
	project.MinLevel = event.LevelFatal

	cfg := DefaultConfig()
	cfg.Count = 25
	cfg.Seed = 3

	r, dir := newRunner(t, cfg, project)
	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Written)
	assert.Equal(t, 25, sum.Suppressed)

	res, err := store.Search(context.Background(), dir, store.Query{})
	require.NoError(t, err)
	assert.Empty(t, res.Events)
}

func TestRunner_InvalidCount(t *testing.T) {
	r, _ := newRunner(t, Config{}, config.Default())
	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestRunner_Cancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	r, _ := newRunner(t, cfg, config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Written)
}
