package gpcforge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	return configPath
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), DefaultConfigFile))
	assert.NoError(t, err)
	assert.Equal(t, ".", config.Workspace)
	assert.Equal(t, ".", config.DistDir)
	assert.False(t, config.Obfuscation.Enabled)
	assert.Equal(t, 1, config.Obfuscation.Level)
	assert.Equal(t, 128, config.Cache.Size)
	assert.True(t, config.Plugins.IsEmpty())
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
workspace: "./games"
verbose: true
obfuscation:
  enabled: true
  level: 3
plugins:
  defines:
    - name: SENSITIVITY
      value: "100"
  vars:
    - type: int
      name: plugin_state
  includes:
    - plugins/common
  pre_build: "int pre;"
  post_build: "int post;"
`)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "./games", config.Workspace)
	assert.Equal(t, "./games", config.DistDir)
	assert.True(t, config.Verbose)
	assert.Equal(t, 3, config.ObfuscationLevel())
	assert.Equal(t, 128, config.Cache.Size)
	assert.Equal(t, []PluginDefine{{Name: "SENSITIVITY", Value: "100"}}, config.Plugins.Defines)
	assert.Equal(t, []PluginVariable{{Type: "int", Name: "plugin_state"}}, config.Plugins.Vars)
	assert.Equal(t, []string{"plugins/common"}, config.Plugins.Includes)
	assert.Equal(t, "int pre;", config.Plugins.PreBuild)
	assert.Equal(t, "int post;", config.Plugins.PostBuild)
	assert.False(t, config.Plugins.IsEmpty())
}

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	configPath := writeConfig(t, `
workspace: "."
unknown_key: "should cause error"
`)

	_, err := LoadConfig(configPath)
	assert.Error(t, err, "expected error for unknown keys in strict mode")
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ValidationError(t *testing.T) {
	configPath := writeConfig(t, `
obfuscation:
  enabled: true
  level: 9
`)

	_, err := LoadConfig(configPath)
	assert.IsError(t, err, ErrConfigValidation)
	assert.Contains(t, err.Error(), "obfuscation.level")
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	t.Setenv("GPCFORGE_TEST_DIST", "/tmp/gpcforge-dist")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GPCFORGE_TEST_PLUGIN_DIR=shared/plugins\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("GPCFORGE_TEST_PLUGIN_DIR") })

	configPath := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte(`
dist_dir: "${GPCFORGE_TEST_DIST}/out"
plugins:
  includes:
    - $GPCFORGE_TEST_PLUGIN_DIR/core
`), 0o644))

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/gpcforge-dist/out", config.DistDir)
	assert.Equal(t, []string{"shared/plugins/core"}, config.Plugins.Includes)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		message string
	}{
		{
			name:    "negative level",
			config:  Config{Obfuscation: ObfuscationConfig{Level: -1}},
			message: "obfuscation.level",
		},
		{
			name:    "negative cache size",
			config:  Config{Cache: CacheConfig{Size: -5}},
			message: "cache.size",
		},
		{
			name:    "invalid define name",
			config:  Config{Plugins: PluginConfig{Defines: []PluginDefine{{Name: "1ABC", Value: "1"}}}},
			message: "invalid name '1ABC'",
		},
		{
			name:    "define without value",
			config:  Config{Plugins: PluginConfig{Defines: []PluginDefine{{Name: "ABC"}}}},
			message: "value is required",
		},
		{
			name:    "invalid variable type",
			config:  Config{Plugins: PluginConfig{Vars: []PluginVariable{{Type: "int[]", Name: "x"}}}},
			message: "invalid type",
		},
		{
			name:    "invalid variable name",
			config:  Config{Plugins: PluginConfig{Vars: []PluginVariable{{Type: "int", Name: ""}}}},
			message: "plugins.vars[0]: invalid name",
		},
		{
			name:    "empty include",
			config:  Config{Plugins: PluginConfig{Includes: []string{"ok", ""}}},
			message: "plugins.includes[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.config)
			assert.IsError(t, err, ErrConfigValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("valid", func(t *testing.T) {
		config := getDefaultConfig()
		assert.NoError(t, validateConfig(config))
	})
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("GPCFORGE_TEST_NAME", "forge")

	assert.Equal(t, "a/forge/b", expandEnvVars("a/${GPCFORGE_TEST_NAME}/b"))
	assert.Equal(t, "forge.gpc", expandEnvVars("$GPCFORGE_TEST_NAME.gpc"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestConfig_GameDir(t *testing.T) {
	config := &Config{Workspace: filepath.FromSlash("/work")}

	abs := filepath.Join(t.TempDir(), "game")
	assert.Equal(t, abs, config.GameDir(abs))
	assert.Equal(t, filepath.Join(filepath.FromSlash("/work"), "no-such-game"), config.GameDir("no-such-game"))
}

func TestConfig_ObfuscationLevel(t *testing.T) {
	config := getDefaultConfig()
	assert.Equal(t, 0, config.ObfuscationLevel())

	config.Obfuscation.Enabled = true
	config.Obfuscation.Level = 4
	assert.Equal(t, 4, config.ObfuscationLevel())
}
