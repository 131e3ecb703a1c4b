package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/guckdev/hunch/internal/event"
	"github.com/guckdev/hunch/internal/store"
	"github.com/guckdev/hunch/pkg/output"
)

func newSearchCmd(a *app) *cobra.Command {
	var q queryFlags

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search stored events",
		Long:  "Scan the project's store and print matching events, newest first.",
		Example: `  hunch search --level warn --since 1h
  hunch search --service api --contains timeout --limit 20
  hunch search --session 4f1c --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query, err := q.build(time.Now())
			if err != nil {
				return err
			}
			loaded, err := a.load(ctx)
			if err != nil {
				return err
			}

			res, err := store.Search(ctx, loaded.StoreDir(), query)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if res.Skipped > 0 {
				a.printer.Warn("skipped %d unreadable lines", res.Skipped)
			}

			events := res.Events
			if events == nil {
				events = []event.Event{}
			}
			if err := a.printer.Render(events, func() *output.Table { return eventTable(events) }); err != nil {
				return err
			}
			if res.Truncated && a.printer.Format == output.FormatTable {
				a.printer.Info("showing first %d results; raise --limit for more", query.Limit)
			}
			return nil
		},
	}
	q.register(searchCmd, 50)
	return searchCmd
}

func eventTable(events []event.Event) *output.Table {
	tbl := output.NewTable("TIME", "LEVEL", "SERVICE", "SOURCE", "MESSAGE")
	for _, ev := range events {
		tbl.AddRow(
			ev.Timestamp.Local().Format(time.DateTime),
			ev.Level.String(),
			ev.Service,
			ev.Source.String(),
			ev.Message,
		)
	}
	return tbl
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		q  queryFlags
		by string
	)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Count stored events by level, service, type or source",
		Example: `  hunch stats --by service --since 24h
  hunch stats --by level --service api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			group, err := store.ParseGroupBy(by)
			if err != nil {
				return err
			}
			query, err := q.build(time.Now())
			if err != nil {
				return err
			}
			loaded, err := a.load(ctx)
			if err != nil {
				return err
			}

			buckets, err := store.Stats(ctx, loaded.StoreDir(), query, group)
			if err != nil {
				return fmt.Errorf("stats failed: %w", err)
			}
			return a.printer.Render(buckets, func() *output.Table {
				tbl := output.NewTable(string(group), "COUNT")
				for _, b := range buckets {
					tbl.AddRow(b.Key, strconv.Itoa(b.Count))
				}
				return tbl
			})
		},
	}
	q.register(statsCmd, 0)
	statsCmd.Flags().StringVar(&by, "by", string(store.ByLevel), "group by: level, service, type, source")
	return statsCmd
}

func newSessionsCmd(a *app) *cobra.Command {
	var q queryFlags

	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Summarise sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query, err := q.build(time.Now())
			if err != nil {
				return err
			}
			loaded, err := a.load(ctx)
			if err != nil {
				return err
			}

			sessions, err := store.Sessions(ctx, loaded.StoreDir(), query)
			if err != nil {
				return fmt.Errorf("sessions failed: %w", err)
			}
			return a.printer.Render(sessions, func() *output.Table {
				tbl := output.NewTable("SESSION", "LAST EVENT", "EVENTS", "ERRORS")
				for _, s := range sessions {
					tbl.AddRow(s.ID, s.LastTS.Local().Format(time.DateTime),
						strconv.Itoa(s.EventCount), strconv.Itoa(s.ErrorCount))
				}
				return tbl
			})
		},
	}
	q.register(sessionsCmd, 20)
	return sessionsCmd
}
