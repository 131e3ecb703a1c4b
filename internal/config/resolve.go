package config

import "github.com/guckdev/hunch/internal/env"

// Loaded is the outcome of a full resolution: the parsed config and where it
// came from.
type Loaded struct {
	Config     Config
	RootDir    string
	ConfigPath string
}

// StoreDir resolves the store directory for this result.
func (l Loaded) StoreDir() string {
	return ResolveStoreDir(l.Config, l.RootDir)
}

// LoadConfig runs the whole pipeline: working directory, locate, load.
// It either returns a fully populated result or an error.
func LoadConfig(vars env.Vars, cwd, configPath string) (Loaded, error) {
	wd, err := ResolveCwd(vars, cwd)
	if err != nil {
		return Loaded{}, err
	}

	loc, err := Locate(vars, wd, configPath)
	if err != nil {
		return Loaded{}, err
	}

	cfg, err := Load(loc)
	if err != nil {
		return Loaded{}, err
	}

	return Loaded{
		Config:     cfg,
		RootDir:    loc.RootDir,
		ConfigPath: loc.ConfigPath,
	}, nil
}
