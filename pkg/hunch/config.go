package hunch

import (
	"sync"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/env"
)

// Options tells LoadConfig and NewClient where to look.
type Options struct {
	// Cwd overrides the working directory used for discovery.
	Cwd string
	// ConfigPath points at a .hunch.json file or a directory holding one.
	ConfigPath string
	// Env replaces the process environment. Nil means os.Environ.
	Env map[string]string
}

func (o Options) vars() env.Vars {
	if o.Env == nil {
		return env.FromOS()
	}
	return env.Vars(o.Env)
}

// LoadConfig resolves and parses the project config.
func LoadConfig(opts Options) (Loaded, error) {
	return config.LoadConfig(opts.vars(), opts.Cwd, opts.ConfigPath)
}

// ResolveStoreDir returns the absolute store directory for cfg under rootDir.
func ResolveStoreDir(cfg Config, rootDir string) string {
	return config.ResolveStoreDir(cfg, rootDir)
}

var defaultEmitter = sync.OnceValues(func() (*emitter.Emitter, error) {
	return emitter.New(env.FromOS())
})

// Emit builds a validated event under cfg without writing it. Run and
// session IDs come from the process environment.
func Emit(cfg Config, level Level, message string, opts ...EmitOption) (Event, error) {
	em, err := defaultEmitter()
	if err != nil {
		return Event{}, err
	}
	return em.Emit(cfg, level, message, opts...)
}
