package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/guckdev/hunch/internal/env"
)

// Location is a resolved config file and the project root that owns it.
type Location struct {
	ConfigPath string
	RootDir    string
}

// Locate finds the config file for cwd.
//
// The config path comes from configPath, else HUNCH_CONFIG, else cwd itself.
// A relative path is joined with cwd. Exactly one candidate is examined:
//   - a directory must contain FileName, and becomes the root;
//   - a regular file is used directly, and its parent becomes the root.
//
// Parent directories are never searched.
func Locate(vars env.Vars, cwd, configPath string) (Location, error) {
	if configPath == "" {
		o, err := vars.Overrides()
		if err != nil {
			return Location{}, err
		}
		configPath = o.ConfigPath
	}

	candidate := cwd
	if configPath != "" {
		if filepath.IsAbs(configPath) {
			candidate = configPath
		} else {
			candidate = filepath.Join(cwd, configPath)
		}
	}

	abs, err := filepath.Abs(candidate)
	if err != nil {
		return Location{}, fmt.Errorf("resolve %s: %w", candidate, err)
	}
	candidate = abs

	info, err := os.Stat(candidate)
	if err != nil {
		return Location{}, statError(candidate, err)
	}

	if info.IsDir() {
		file := filepath.Join(candidate, FileName)
		fi, err := os.Stat(file)
		if err != nil {
			return Location{}, statError(file, err)
		}
		if !fi.Mode().IsRegular() {
			return Location{}, fmt.Errorf("%w: %s", ErrNotAFile, file)
		}
		return Location{ConfigPath: file, RootDir: candidate}, nil
	}

	if !info.Mode().IsRegular() {
		return Location{}, fmt.Errorf("%w: %s", ErrNotAFile, candidate)
	}
	return Location{ConfigPath: candidate, RootDir: filepath.Dir(candidate)}, nil
}

func statError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	return fmt.Errorf("%w: %s: %w", ErrConfigRead, path, err)
}
