package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/event"
	"github.com/guckdev/hunch/internal/logging"
	"github.com/guckdev/hunch/internal/store"
	"github.com/guckdev/hunch/pkg/output"
)

type emitFlags struct {
	level      string
	eventType  string
	service    string
	sourceKind string
	sourceName string
	data       []string
	tags       []string
	session    string
	traceID    string
	spanID     string
}

func newEmitCmd(a *app) *cobra.Command {
	var f emitFlags

	emitCmd := &cobra.Command{
		Use:   "emit MESSAGE...",
		Short: "Record one event",
		Example: `  hunch emit "deploy finished" --level info --data version=1.4.2 --tag env=staging
  hunch emit "migration failed" --level error --type migration --source-kind script --source-name migrate.sh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			level, err := event.ParseLevel(f.level)
			if err != nil {
				return err
			}
			kind, err := event.ParseSourceKind(f.sourceKind)
			if err != nil {
				return err
			}
			data, err := parseData(f.data)
			if err != nil {
				return err
			}
			tags, err := parseKeyValues(f.tags)
			if err != nil {
				return err
			}

			loaded, err := a.load(ctx)
			if err != nil {
				return err
			}
			em, err := emitter.New(a.env)
			if err != nil {
				return err
			}

			ev, err := em.Emit(loaded.Config, level, strings.Join(args, " "),
				emitter.WithType(f.eventType),
				emitter.WithService(f.service),
				emitter.WithSource(event.Source{Kind: kind, Name: f.sourceName}),
				emitter.WithData(data),
				emitter.WithTags(tags),
				emitter.WithSessionID(f.session),
				emitter.WithTrace(f.traceID, f.spanID),
			)
			if err != nil {
				return err
			}

			written, err := store.NewWriter(loaded.StoreDir(), a.logger).Append(ctx, ev)
			if err != nil {
				return err
			}
			a.logger.DebugContext(ctx, "emitted event", logging.EventID(ev.ID), logging.Level(ev.Level))

			switch a.printer.Format {
			case output.FormatJSON:
				return a.printer.JSON(ev)
			case output.FormatYAML:
				return a.printer.YAML(ev)
			}
			if !written {
				a.printer.Println("suppressed")
				return nil
			}
			a.printer.Println(ev.ID)
			return nil
		},
	}

	fl := emitCmd.Flags()
	fl.StringVar(&f.level, "level", "info", "event level: trace, debug, info, warn, error, fatal")
	fl.StringVar(&f.eventType, "type", "", "event type (default: log)")
	fl.StringVar(&f.service, "service", "", "service name (default: default_service from .hunch.json)")
	fl.StringVar(&f.sourceKind, "source-kind", "process", "source kind: process, sdk, script, test, mcp, browser")
	fl.StringVar(&f.sourceName, "source-name", "hunch-cli", "source name")
	fl.StringArrayVar(&f.data, "data", nil, "data as key=value; numbers and booleans are typed (repeatable)")
	fl.StringArrayVar(&f.tags, "tag", nil, "tag as key=value (repeatable)")
	fl.StringVar(&f.session, "session", "", "session id (default: $HUNCH_SESSION_ID)")
	fl.StringVar(&f.traceID, "trace-id", "", "trace id")
	fl.StringVar(&f.spanID, "span-id", "", "span id")

	return emitCmd
}
