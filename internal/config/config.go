// Package config locates a project's .hunch.json, loads it, and resolves the
// directory where events are stored.
//
// Resolution is a fixed pipeline:
//
//	ResolveCwd -> Locate -> Load -> ResolveStoreDir
//
// Every step takes its inputs explicitly, including the environment snapshot,
// so concurrent callers never share state.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/guckdev/hunch/internal/event"
)

const (
	// FileName is the canonical config file name inside a project root.
	FileName = ".hunch.json"
	// DefaultStoreDir is used when store_dir is omitted.
	DefaultStoreDir = "logs/hunch"
	// DefaultService is used when default_service is omitted.
	DefaultService = "hunch"
)

// DefaultRedactKeys are data keys redacted unless the config overrides them.
var DefaultRedactKeys = []string{"password", "secret", "token", "api_key", "authorization", "cookie"}

// Config is the parsed content of a .hunch.json file. It is a value type;
// treat it as read-only after Load.
type Config struct {
	StoreDir       string       `mapstructure:"store_dir"`
	Enabled        bool         `mapstructure:"enabled"`
	DefaultService string       `mapstructure:"default_service"`
	MinLevel       event.Level  `mapstructure:"min_level"`
	Redact         RedactConfig `mapstructure:"redact"`

	// Extra holds unrecognised top-level keys in document order.
	Extra Extras `mapstructure:"-"`
}

// RedactConfig controls scrubbing of event data before it is handed off.
type RedactConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Keys     []string `mapstructure:"keys"`
	Patterns []string `mapstructure:"patterns"`

	compiled []*regexp.Regexp
}

// Default returns the configuration used for keys a file omits.
func Default() Config {
	return Config{
		StoreDir:       DefaultStoreDir,
		Enabled:        true,
		DefaultService: DefaultService,
		Redact: RedactConfig{
			Enabled: true,
			Keys:    append([]string(nil), DefaultRedactKeys...),
		},
	}
}

// HasThreshold reports whether a minimum level is configured.
func (c Config) HasThreshold() bool {
	return c.MinLevel.Valid()
}

// Matchers returns the compiled redaction patterns.
func (r RedactConfig) Matchers() ([]*regexp.Regexp, error) {
	if len(r.compiled) == len(r.Patterns) {
		return r.compiled, nil
	}
	return compilePatterns(r.Patterns)
}

// MatchesKey reports whether key is listed for redaction, ignoring case.
func (r RedactConfig) MatchesKey(key string) bool {
	for _, k := range r.Keys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redact pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Field is one opaque top-level entry of a config file.
type Field struct {
	Key   string
	Value any
}

// Extras is an ordered bag of config entries hunch does not interpret.
type Extras []Field

// Get returns the value stored under key.
func (e Extras) Get(key string) (any, bool) {
	for _, f := range e {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in document order.
func (e Extras) Keys() []string {
	keys := make([]string, len(e))
	for i, f := range e {
		keys[i] = f.Key
	}
	return keys
}

// set replaces an existing key in place or appends a new one.
func (e Extras) set(key string, value any) Extras {
	for i, f := range e {
		if f.Key == key {
			e[i].Value = value
			return e
		}
	}
	return append(e, Field{Key: key, Value: value})
}
