// Package seeder fills a store with realistic fake events for trying out
// search and stats.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/logging"
	"github.com/guckdev/hunch/internal/store"
)

// ErrInvalidCount is returned when Count is not positive.
var ErrInvalidCount = errors.New("count must be positive")

// Config controls a seeding run.
type Config struct {
	Count      int
	Service    string
	TimeSpread time.Duration
	Kinds      []string
	// Sessions is the size of the session ID pool events are spread over.
	Sessions int
	// Seed makes the run reproducible; 0 picks a random seed.
	Seed int64
}

// DefaultConfig returns the settings `hunch seed` starts from.
func DefaultConfig() Config {
	return Config{
		Count:      100,
		TimeSpread: 24 * time.Hour,
		Kinds:      Kinds,
		Sessions:   3,
	}
}

// Summary reports what a run did.
type Summary struct {
	Written    int `json:"written" yaml:"written"`
	Suppressed int `json:"suppressed" yaml:"suppressed"`
	Failed     int `json:"failed" yaml:"failed"`
}

// Runner generates events through an Emitter and appends them to a Writer.
type Runner struct {
	cfg     Config
	project config.Config
	emitter *emitter.Emitter
	writer  *store.Writer
	logger  *logging.Logger
	faker   *gofakeit.Faker
	now     func() time.Time
}

// NewRunner creates a Runner. project is the loaded .hunch.json; its
// enabled flag and min_level still apply to seeded events.
func NewRunner(cfg Config, project config.Config, em *emitter.Emitter, w *store.Writer, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = Kinds
	}
	if cfg.Sessions <= 0 {
		cfg.Sessions = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{
		cfg:     cfg,
		project: project,
		emitter: em,
		writer:  w,
		logger:  logger,
		faker:   gofakeit.New(seed),
		now:     time.Now,
	}
}

// Run executes the seeding process. It stops early only when ctx is done;
// individual write failures are counted.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	if r.cfg.Count <= 0 {
		return sum, ErrInvalidCount
	}

	sessions := make([]string, r.cfg.Sessions)
	for i := range sessions {
		sessions[i] = "seed-" + r.faker.UUID()[:8]
	}

	r.logger.InfoContext(ctx, "starting event seeder",
		logging.Count(r.cfg.Count),
		logging.StoreDir(r.writer.Dir()),
		"time_spread", r.cfg.TimeSpread.String(),
		"kinds", r.cfg.Kinds,
	)

	now := r.now()
	for i := 0; i < r.cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		kind := r.cfg.Kinds[r.faker.Number(0, len(r.cfg.Kinds)-1)]
		gen := Generate(r.faker, kind)

		opts := append(gen.Options(),
			emitter.WithService(r.cfg.Service),
			emitter.WithSessionID(sessions[i%len(sessions)]),
			emitter.WithTimestamp(eventTime(r.faker, now, r.cfg.TimeSpread, i, r.cfg.Count)),
		)
		ev, err := r.emitter.Emit(r.project, gen.Level, gen.Message, opts...)
		if err != nil {
			return sum, fmt.Errorf("generate %s event: %w", kind, err)
		}

		written, err := r.writer.Append(ctx, ev)
		switch {
		case err != nil:
			sum.Failed++
		case written:
			sum.Written++
		default:
			sum.Suppressed++
		}
	}

	r.logger.InfoContext(ctx, "seeding complete",
		"written", sum.Written, "suppressed", sum.Suppressed, "failed", sum.Failed)
	return sum, nil
}
