// Package env captures the process environment as an explicit value.
//
// Resolution code never calls os.Getenv. Callers take a snapshot once at the
// process boundary (FromOS) and pass it down, which keeps config lookup pure
// and lets tests supply a plain map.
package env

import (
	"fmt"
	"os"
	"strings"

	envparse "github.com/caarlos0/env/v11"
)

// Variable names consulted by hunch.
const (
	Cwd               = "HUNCH_CWD"
	InitCwd           = "INIT_CWD"
	ConfigPath        = "HUNCH_CONFIG"
	RunID             = "HUNCH_RUN_ID"
	SessionID         = "HUNCH_SESSION_ID"
	StrictWriteErrors = "HUNCH_STRICT_WRITE_ERRORS"
	IngestRegistryDir = "HUNCH_INGEST_REGISTRY_DIR"
)

// Vars is an immutable-by-convention snapshot of environment variables.
type Vars map[string]string

// FromOS snapshots the current process environment.
func FromOS() Vars {
	return Vars(envparse.ToMap(os.Environ()))
}

// Empty returns a snapshot with no variables set.
func Empty() Vars {
	return Vars{}
}

// Get returns the value for key, or "" when unset. Safe on a nil Vars.
func (v Vars) Get(key string) string {
	return v[key]
}

// With returns a copy of v with key set to value.
func (v Vars) With(key, value string) Vars {
	out := make(Vars, len(v)+1)
	for k, val := range v {
		out[k] = val
	}
	out[key] = value
	return out
}

// Overrides holds every hunch-specific variable in typed form.
type Overrides struct {
	Cwd               string `env:"HUNCH_CWD"`
	InitCwd           string `env:"INIT_CWD"`
	ConfigPath        string `env:"HUNCH_CONFIG"`
	RunID             string `env:"HUNCH_RUN_ID"`
	SessionID         string `env:"HUNCH_SESSION_ID"`
	StrictWriteErrors string `env:"HUNCH_STRICT_WRITE_ERRORS"`
	IngestRegistryDir string `env:"HUNCH_INGEST_REGISTRY_DIR"`
}

// Overrides parses the snapshot into an Overrides value.
func (v Vars) Overrides() (Overrides, error) {
	var o Overrides
	// A nil Environment makes the parser fall back to the real process env.
	vars := map[string]string(v)
	if vars == nil {
		vars = map[string]string{}
	}
	if err := envparse.ParseWithOptions(&o, envparse.Options{Environment: vars}); err != nil {
		return Overrides{}, fmt.Errorf("parse environment: %w", err)
	}
	return o, nil
}

// Strict reports whether write errors should be returned instead of
// disabling writes.
func (o Overrides) Strict() bool {
	switch strings.ToLower(strings.TrimSpace(o.StrictWriteErrors)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
