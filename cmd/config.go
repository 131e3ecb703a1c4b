package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/pkg/output"
)

type extraView struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

type configView struct {
	RootDir        string      `json:"root_dir" yaml:"root_dir"`
	ConfigPath     string      `json:"config_path" yaml:"config_path"`
	StoreDir       string      `json:"store_dir" yaml:"store_dir"`
	Enabled        bool        `json:"enabled" yaml:"enabled"`
	DefaultService string      `json:"default_service" yaml:"default_service"`
	MinLevel       string      `json:"min_level,omitempty" yaml:"min_level,omitempty"`
	Redact         bool        `json:"redact" yaml:"redact"`
	RedactKeys     []string    `json:"redact_keys,omitempty" yaml:"redact_keys,omitempty"`
	Extra          []extraView `json:"extra,omitempty" yaml:"extra,omitempty"`
}

func newConfigView(l config.Loaded) configView {
	v := configView{
		RootDir:        l.RootDir,
		ConfigPath:     l.ConfigPath,
		StoreDir:       l.StoreDir(),
		Enabled:        l.Config.Enabled,
		DefaultService: l.Config.DefaultService,
		Redact:         l.Config.Redact.Enabled,
		RedactKeys:     l.Config.Redact.Keys,
	}
	if l.Config.HasThreshold() {
		v.MinLevel = l.Config.MinLevel.String()
	}
	for _, f := range l.Config.Extra {
		v.Extra = append(v.Extra, extraView{Key: f.Key, Value: f.Value})
	}
	return v
}

func (v configView) table() *output.Table {
	tbl := output.NewTable("KEY", "VALUE")
	tbl.AddRow("root_dir", v.RootDir)
	tbl.AddRow("config_path", v.ConfigPath)
	tbl.AddRow("store_dir", v.StoreDir)
	tbl.AddRow("enabled", strconv.FormatBool(v.Enabled))
	tbl.AddRow("default_service", v.DefaultService)
	tbl.AddRow("min_level", v.MinLevel)
	tbl.AddRow("redact", strconv.FormatBool(v.Redact))
	tbl.AddRow("redact_keys", strings.Join(v.RedactKeys, ","))
	for _, e := range v.Extra {
		tbl.AddRow(e.Key, fmt.Sprint(e.Value))
	}
	return tbl
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved project config",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved config and where it came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			view := newConfigView(loaded)
			return a.printer.Render(view, view.table)
		},
	}

	storeDirCmd := &cobra.Command{
		Use:   "store-dir",
		Short: "Print the absolute store directory",
		Example: `  # Tail today's events
  tail -f "$(hunch config store-dir)"/$(date -u +%F)/*.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.Println(loaded.StoreDir())
			return nil
		},
	}

	configCmd.AddCommand(showCmd, storeDirCmd)
	return configCmd
}
