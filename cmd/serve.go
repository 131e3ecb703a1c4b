package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/ingest"
	"github.com/guckdev/hunch/internal/logging"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		opts        ingest.Options
		registryDir string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP ingest endpoint",
		Long: `Accept events over HTTP and append them to the project's store.

POST a JSON event, or an array of events, to the emit path. Browsers may
post cross-origin. A registry entry describing the server is written to
the registry directory while it runs so other tools can find it.`,
		Example: `  hunch serve
  hunch serve --port 0 --registry-dir /tmp/hunch-registry
  curl -d '{"message":"hi","level":"warn"}' http://127.0.0.1:7331/hunch/emit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loaded, err := a.load(ctx)
			if err != nil {
				return err
			}
			em, err := emitter.New(a.env)
			if err != nil {
				return err
			}
			opts.RegistryDir, err = ingest.RegistryDir(registryDir, a.env)
			if err != nil {
				return err
			}

			logger := a.logger.With(logging.Service("ingest"))
			srv := ingest.NewServer(opts, loaded, em, logger)
			if err := srv.Listen(); err != nil {
				return err
			}
			a.printer.Success("Listening on %s", srv.URL())
			return srv.Serve(ctx)
		},
	}

	f := serveCmd.Flags()
	f.StringVar(&opts.Host, "host", ingest.DefaultHost, "address to bind")
	f.IntVar(&opts.Port, "port", ingest.DefaultPort, "port to bind (0 picks a free port)")
	f.StringVar(&opts.Path, "path", ingest.DefaultPath, "emit endpoint path")
	f.Int64Var(&opts.MaxBodyBytes, "max-body-bytes", ingest.DefaultMaxBodyBytes, "largest accepted request body")
	f.StringVar(&registryDir, "registry-dir", "", "registry directory (default: $HUNCH_INGEST_REGISTRY_DIR or ~/.hunch/ingest)")
	return serveCmd
}
