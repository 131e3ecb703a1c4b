// Package cmd implements the hunch command-line interface.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/env"
	"github.com/guckdev/hunch/internal/logging"
	"github.com/guckdev/hunch/pkg/output"
)

// Version is stamped at build time.
var Version = "0.1.0"

type globalFlags struct {
	cwd        string
	configPath string
	logLevel   string
	logFormat  string
	output     string
}

// app carries what every command needs once flags are parsed.
type app struct {
	flags   globalFlags
	env     env.Vars
	logger  *logging.Logger
	printer *output.Printer
}

// Execute runs the CLI against the process environment.
func Execute() error {
	return NewRootCmd(env.FromOS()).Execute()
}

// NewRootCmd builds the command tree. vars replaces the process environment
// for config discovery and run/session IDs.
func NewRootCmd(vars env.Vars) *cobra.Command {
	a := &app{env: vars}

	rootCmd := &cobra.Command{
		Use:   "hunch",
		Short: "Local structured event logging",
		Long: `hunch records structured events from scripts, services and browsers
into a per-project store, and lets you search and summarise them.

A project is marked by a .hunch.json file in its root directory.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.cwd, "cwd", "", "working directory used to find .hunch.json (default: $HUNCH_CWD, $INIT_CWD, or the current directory)")
	pf.StringVar(&a.flags.configPath, "config", "", "path to .hunch.json or its directory (default: $HUNCH_CONFIG)")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "log format: text, json")
	pf.StringVarP(&a.flags.output, "output", "o", "table", "output format: table, json, yaml")

	rootCmd.AddCommand(
		newConfigCmd(a),
		newEmitCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newSessionsCmd(a),
		newSeedCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	format, err := output.ParseFormat(a.flags.output)
	if err != nil {
		return err
	}
	a.printer = output.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), format)
	a.logger = logging.New(logging.ParseLevel(a.flags.logLevel), a.flags.logFormat, cmd.ErrOrStderr())
	return nil
}

// load resolves the project config from flags and environment.
func (a *app) load(ctx context.Context) (config.Loaded, error) {
	loaded, err := config.LoadConfig(a.env, a.flags.cwd, a.flags.configPath)
	if err != nil {
		return config.Loaded{}, err
	}
	a.logger.DebugContext(ctx, "loaded config",
		logging.RootDir(loaded.RootDir),
		logging.ConfigPath(loaded.ConfigPath),
		logging.StoreDir(loaded.StoreDir()),
	)
	return loaded, nil
}
