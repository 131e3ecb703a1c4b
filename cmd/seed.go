package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/seeder"
	"github.com/guckdev/hunch/internal/store"
	"github.com/guckdev/hunch/pkg/output"
)

func newSeedCmd(a *app) *cobra.Command {
	cfg := seeder.DefaultConfig()
	var kinds string

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Write realistic fake events to the store",
		Long: `Generate fake events and append them to the project's store, spread
over a time window ending now. Handy for trying out search and stats.

The project's enabled flag and min_level still apply.`,
		Example: `  hunch seed --count 500 --spread 72h
  hunch seed --service checkout --kinds http,db --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if kinds != "" {
				cfg.Kinds = strings.Split(kinds, ",")
			}

			loaded, err := a.load(ctx)
			if err != nil {
				return err
			}
			em, err := emitter.New(a.env)
			if err != nil {
				return err
			}

			writer := store.NewWriter(loaded.StoreDir(), a.logger)
			sum, err := seeder.NewRunner(cfg, loaded.Config, em, writer, a.logger).Run(ctx)
			if err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}

			if a.printer.Format != output.FormatTable {
				return a.printer.Render(sum, nil)
			}
			a.printer.Success("Seeded %d events into %s (suppressed %d, failed %d)",
				sum.Written, loaded.StoreDir(), sum.Suppressed, sum.Failed)
			return nil
		},
	}

	f := seedCmd.Flags()
	f.IntVar(&cfg.Count, "count", cfg.Count, "number of events")
	f.StringVar(&cfg.Service, "service", "", "service name (default: default_service from .hunch.json)")
	f.DurationVar(&cfg.TimeSpread, "spread", cfg.TimeSpread, "time window the events are spread over")
	f.IntVar(&cfg.Sessions, "sessions", cfg.Sessions, "number of distinct session ids")
	f.Int64Var(&cfg.Seed, "seed", 0, "random seed for reproducible output (0 for random)")
	f.StringVar(&kinds, "kinds", "", "comma-separated event kinds: "+strings.Join(seeder.Kinds, ", "))
	return seedCmd
}
