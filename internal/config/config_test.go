package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guckdev/hunch/internal/env"
	"github.com/guckdev/hunch/internal/event"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const storeDirConfig = `{
  "store_dir": "logs/hunch"
}`

func TestLoadConfig_DirectoryPath(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "repo")
	writeConfig(t, filepath.Join(configDir, FileName), storeDirConfig)

	loaded, err := LoadConfig(env.Empty(), "", configDir)
	require.NoError(t, err)

	assert.Equal(t, configDir, loaded.RootDir)
	assert.Equal(t, filepath.Join(configDir, FileName), loaded.ConfigPath)
	assert.Equal(t, filepath.Join(configDir, "logs", "hunch"), ResolveStoreDir(loaded.Config, loaded.RootDir))
	assert.Equal(t, loaded.StoreDir(), ResolveStoreDir(loaded.Config, loaded.RootDir))
}

func TestLoadConfig_RelativePathUsesCwd(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "root")
	configDir := filepath.Join(baseDir, "config")
	writeConfig(t, filepath.Join(configDir, FileName), storeDirConfig)

	loaded, err := LoadConfig(env.Empty(), baseDir, "config/.hunch.json")
	require.NoError(t, err)

	assert.Equal(t, configDir, loaded.RootDir)
	assert.Equal(t, filepath.Join(configDir, "logs", "hunch"), loaded.StoreDir())
}

func TestLoadConfig_EnvCwdUsedWhenNoExplicitCwd(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, FileName), `{}`)

	loaded, err := LoadConfig(env.Vars{env.Cwd: root}, "", "")
	require.NoError(t, err)
	assert.Equal(t, root, loaded.RootDir)
}

func TestLoadConfig_EnvConfigPath(t *testing.T) {
	base := t.TempDir()
	writeConfig(t, filepath.Join(base, "from-env", FileName), `{"store_dir": "env-logs"}`)
	writeConfig(t, filepath.Join(base, "from-arg", FileName), `{"store_dir": "arg-logs"}`)

	vars := env.Vars{env.ConfigPath: "from-env"}

	t.Run("env beats default search", func(t *testing.T) {
		loaded, err := LoadConfig(vars, base, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "from-env"), loaded.RootDir)
		assert.Equal(t, "env-logs", loaded.Config.StoreDir)
	})

	t.Run("argument beats env", func(t *testing.T) {
		loaded, err := LoadConfig(vars, base, "from-arg")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "from-arg"), loaded.RootDir)
		assert.Equal(t, "arg-logs", loaded.Config.StoreDir)
	})
}

func TestLoadConfig_NoPartialResult(t *testing.T) {
	base := t.TempDir()
	writeConfig(t, filepath.Join(base, FileName), `{"store_dir": `)

	loaded, err := LoadConfig(env.Empty(), base, "")
	require.ErrorIs(t, err, ErrConfigParse)
	assert.Equal(t, Loaded{}, loaded)
}

func TestLocate_SearchModeUsesCwd(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, FileName), `{}`)

	loc, err := Locate(env.Empty(), root, "")
	require.NoError(t, err)
	assert.Equal(t, root, loc.RootDir)
	assert.Equal(t, filepath.Join(root, FileName), loc.ConfigPath)
}

func TestLocate_DoesNotWalkParents(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, FileName), `{}`)
	child := filepath.Join(root, "child")
	require.NoError(t, os.Mkdir(child, 0755))

	_, err := Locate(env.Empty(), child, "")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLocate_Errors(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, "plain.json"), `{}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "weird", FileName), 0755))

	tests := []struct {
		name       string
		configPath string
		want       error
	}{
		{"missing path", "nope", ErrConfigNotFound},
		{"directory without config file", "empty", ErrConfigNotFound},
		{"config name is a directory", "weird", ErrNotAFile},
		{"path through a file", "plain.json/child", ErrConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Locate(env.Empty(), root, tt.configPath)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLocate_ArbitraryFileName(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "ci", "hunch.ci.json")
	writeConfig(t, path, `{}`)

	loc, err := Locate(env.Empty(), "/unused", path)
	require.NoError(t, err)
	assert.Equal(t, path, loc.ConfigPath)
	assert.Equal(t, filepath.Dir(path), loc.RootDir)
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, filepath.Join(root, FileName), `{}`)

	cfg, err := Load(Location{ConfigPath: filepath.Join(root, FileName), RootDir: root})
	require.NoError(t, err)

	assert.Equal(t, DefaultStoreDir, cfg.StoreDir)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, DefaultService, cfg.DefaultService)
	assert.False(t, cfg.HasThreshold())
	assert.True(t, cfg.Redact.Enabled)
	assert.Equal(t, DefaultRedactKeys, cfg.Redact.Keys)
	assert.Empty(t, cfg.Extra)
}

func TestLoad_AllKnownKeys(t *testing.T) {
	cfg, err := Parse("test", []byte(`{
  "store_dir": "/var/hunch",
  "enabled": false,
  "default_service": "web",
  "min_level": "warn",
  "redact": {"keys": ["ssn"], "patterns": ["sk-[a-z0-9]+"]}
}`))
	require.NoError(t, err)

	assert.Equal(t, "/var/hunch", cfg.StoreDir)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "web", cfg.DefaultService)
	assert.Equal(t, event.LevelWarn, cfg.MinLevel)
	assert.True(t, cfg.HasThreshold())
	assert.Equal(t, []string{"ssn"}, cfg.Redact.Keys)
	assert.True(t, cfg.Redact.Enabled)

	matchers, err := cfg.Redact.Matchers()
	require.NoError(t, err)
	require.Len(t, matchers, 1)
	assert.True(t, matchers[0].MatchString("token sk-abc123"))
}

func TestLoad_PreservesExtrasInOrder(t *testing.T) {
	cfg, err := Parse("test", []byte(`{
  "zeta": 1,
  "store_dir": "x",
  "alpha": {"nested": true},
  "mid": ["a", "b"],
  "zeta": 2
}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, cfg.Extra.Keys())

	zeta, ok := cfg.Extra.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, "2", zeta.(interface{ String() string }).String())

	alpha, ok := cfg.Extra.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"nested": true}, alpha)

	_, ok = cfg.Extra.Get("store_dir")
	assert.False(t, ok)
}

func TestLoad_KnownKeysAreCaseSensitive(t *testing.T) {
	cfg, err := Parse("test", []byte(`{"store_dir": "a", "STORE_DIR": "b", "Enabled": false}`))
	require.NoError(t, err)

	assert.Equal(t, "a", cfg.StoreDir)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"STORE_DIR", "Enabled"}, cfg.Extra.Keys())

	upper, ok := cfg.Extra.Get("STORE_DIR")
	require.True(t, ok)
	assert.Equal(t, "b", upper)
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"null", "null"},
		{"array", `["store_dir"]`},
		{"truncated", `{"store_dir": "x"`},
		{"trailing garbage", `{} {}`},
		{"trailing comma", `{"store_dir": "x",}`},
		{"unknown min level", `{"min_level": "loud"}`},
		{"bad redact pattern", `{"redact": {"patterns": ["("]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test", []byte(tt.content))
			assert.ErrorIs(t, err, ErrConfigParse)
		})
	}
}

func TestLoad_ReadError(t *testing.T) {
	root := t.TempDir()
	_, err := Load(Location{ConfigPath: filepath.Join(root, FileName), RootDir: root})
	assert.ErrorIs(t, err, ErrConfigRead)
}

func TestRedactConfig_MatchesKey(t *testing.T) {
	r := RedactConfig{Keys: []string{"Password"}}
	assert.True(t, r.MatchesKey("password"))
	assert.True(t, r.MatchesKey("PASSWORD"))
	assert.False(t, r.MatchesKey("user"))
}

func TestRedactConfig_MatchersCompilesLazily(t *testing.T) {
	r := RedactConfig{Patterns: []string{`\d{4}`}}
	matchers, err := r.Matchers()
	require.NoError(t, err)
	require.Len(t, matchers, 1)

	_, err = RedactConfig{Patterns: []string{"["}}.Matchers()
	assert.Error(t, err)
}
