package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guckdev/hunch/internal/env"
)

// ResolveCwd picks the working directory resolution starts from.
//
// Precedence: explicit, then HUNCH_CWD, then INIT_CWD (set by launchers such
// as npm that change directory before exec), then the process working
// directory. The result is absolute and cleaned. Existence is not checked.
func ResolveCwd(vars env.Vars, explicit string) (string, error) {
	o, err := vars.Overrides()
	if err != nil {
		return "", err
	}

	candidate := firstNonEmpty(explicit, o.Cwd, o.InitCwd)
	if candidate == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return filepath.Clean(wd), nil
	}

	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", candidate, err)
	}
	return abs, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
