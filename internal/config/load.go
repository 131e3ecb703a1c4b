package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// knownKeys are the top-level keys Load interprets. They match exactly, so
// "STORE_DIR" is an extra, not the store dir. Anything else is kept in
// Config.Extra.
var knownKeys = map[string]struct{}{
	"store_dir":       {},
	"enabled":         {},
	"default_service": {},
	"min_level":       {},
	"redact":          {},
}

// Load reads and parses the config file at loc.
//
// Syntax is strict: the file must be a single JSON object. Schema is lenient:
// missing keys take defaults and unknown keys are preserved in Extra.
func Load(loc Location) (Config, error) {
	data, err := os.ReadFile(loc.ConfigPath)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigRead, loc.ConfigPath, err)
	}
	return Parse(loc.ConfigPath, data)
}

// Parse decodes config bytes. name is only used in error messages.
func Parse(name string, data []byte) (Config, error) {
	extras, known, err := scanTopLevel(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigParse, name, err)
	}

	// viper folds key case, so it only sees the exact-case known keys.
	knownJSON, err := json.Marshal(known)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigParse, name, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(knownJSON)); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigParse, name, err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigParse, name, err)
	}

	if cfg.MinLevel != 0 && !cfg.MinLevel.Valid() {
		return Config{}, fmt.Errorf("%w: %s: min_level %d out of range", ErrConfigParse, name, int(cfg.MinLevel))
	}

	compiled, err := compilePatterns(cfg.Redact.Patterns)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigParse, name, err)
	}
	cfg.Redact.compiled = compiled
	cfg.Extra = extras

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("store_dir", def.StoreDir)
	v.SetDefault("enabled", def.Enabled)
	v.SetDefault("default_service", def.DefaultService)
	v.SetDefault("min_level", "")
	v.SetDefault("redact.enabled", def.Redact.Enabled)
	v.SetDefault("redact.keys", def.Redact.Keys)
	v.SetDefault("redact.patterns", []string{})
}

// scanTopLevel checks that data is exactly one JSON object. It returns the
// keys Load does not interpret, in order, and the raw values of the ones it
// does.
func scanTopLevel(data []byte) (Extras, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty document")
		}
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("top-level value must be an object")
	}

	var extras Extras
	known := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, ok := knownKeys[key]; ok {
			known[key] = raw
			continue
		}
		value, err := decodeExtra(raw)
		if err != nil {
			return nil, nil, err
		}
		extras = extras.set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, errors.New("unexpected data after top-level object")
	}

	return extras, known, nil
}

// decodeExtra decodes an extra value, keeping numbers as json.Number.
func decodeExtra(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
