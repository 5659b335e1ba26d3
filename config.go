package gpcforge

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	// DefaultConfigFile is looked up in the current directory when --config is not given
	DefaultConfigFile = "gpcforge.yaml"

	defaultCacheSize        = 128
	defaultObfuscationLevel = 1
	maxObfuscationLevel     = 5
)

// Config represents the gpcforge configuration
type Config struct {
	Workspace   string            `yaml:"workspace"`
	DistDir     string            `yaml:"dist_dir"` // base directory of dist/, defaults to the workspace
	Verbose     bool              `yaml:"verbose"`
	Obfuscation ObfuscationConfig `yaml:"obfuscation"`
	Cache       CacheConfig       `yaml:"cache"`
	Plugins     PluginConfig      `yaml:"plugins"`
}

// ObfuscationConfig controls the optional obfuscation step of a build
type ObfuscationConfig struct {
	Enabled bool `yaml:"enabled"`
	Level   int  `yaml:"level"`
}

// CacheConfig sizes the source file cache used by builds
type CacheConfig struct {
	Size int `yaml:"size"`
}

// PluginConfig is code injected around every build
type PluginConfig struct {
	Defines   []PluginDefine   `yaml:"defines"`
	Vars      []PluginVariable `yaml:"vars"`
	Includes  []string         `yaml:"includes"`
	PreBuild  string           `yaml:"pre_build"`
	PostBuild string           `yaml:"post_build"`
}

// PluginDefine becomes `define NAME = VALUE;`
type PluginDefine struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// PluginVariable becomes `TYPE NAME;`
type PluginVariable struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// IsEmpty returns true if the plugin configuration injects nothing
func (p PluginConfig) IsEmpty() bool {
	return len(p.Defines) == 0 && len(p.Vars) == 0 && len(p.Includes) == 0 && p.PreBuild == "" && p.PostBuild == ""
}

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	bracedEnvPattern  = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvPattern   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Obfuscation.Level < 0 || config.Obfuscation.Level > maxObfuscationLevel {
		return fmt.Errorf("%w: obfuscation.level must be between 1 and %d, got %d", ErrConfigValidation, maxObfuscationLevel, config.Obfuscation.Level)
	}

	if config.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size must be non-negative, got %d", ErrConfigValidation, config.Cache.Size)
	}

	for i, define := range config.Plugins.Defines {
		if !identifierPattern.MatchString(define.Name) {
			return fmt.Errorf("%w: plugins.defines[%d]: invalid name '%s'", ErrConfigValidation, i, define.Name)
		}

		if define.Value == "" {
			return fmt.Errorf("%w: plugins.defines[%d]: value is required for '%s'", ErrConfigValidation, i, define.Name)
		}
	}

	for i, variable := range config.Plugins.Vars {
		if !identifierPattern.MatchString(variable.Type) {
			return fmt.Errorf("%w: plugins.vars[%d]: invalid type '%s'", ErrConfigValidation, i, variable.Type)
		}

		if !identifierPattern.MatchString(variable.Name) {
			return fmt.Errorf("%w: plugins.vars[%d]: invalid name '%s'", ErrConfigValidation, i, variable.Name)
		}
	}

	for i, include := range config.Plugins.Includes {
		if include == "" {
			return fmt.Errorf("%w: plugins.includes[%d]: path is required", ErrConfigValidation, i)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Workspace: ".",
		DistDir:   ".",
		Obfuscation: ObfuscationConfig{
			Enabled: false,
			Level:   defaultObfuscationLevel,
		},
		Cache: CacheConfig{
			Size: defaultCacheSize,
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Workspace == "" {
		config.Workspace = "."
	}

	if config.DistDir == "" {
		config.DistDir = config.Workspace
	}

	if config.Obfuscation.Level == 0 {
		config.Obfuscation.Level = defaultObfuscationLevel
	}

	if config.Cache.Size == 0 {
		config.Cache.Size = defaultCacheSize
	}
}

// loadEnvFiles loads .env from the current directory and from dir if they exist
func loadEnvFiles(dir string) error {
	candidates := []string{".env"}
	if dir != "" && dir != "." {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}

	for _, path := range candidates {
		if !fileExists(path) {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in path fields and plugin values
func expandConfigEnvVars(config *Config) {
	config.Workspace = expandEnvVars(config.Workspace)
	config.DistDir = expandEnvVars(config.DistDir)

	for i, include := range config.Plugins.Includes {
		config.Plugins.Includes[i] = expandEnvVars(include)
	}

	for i, define := range config.Plugins.Defines {
		config.Plugins.Defines[i].Value = expandEnvVars(define.Value)
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GameDir resolves a game directory name against the workspace.
// Absolute paths and paths that exist relative to the current directory are kept.
func (c *Config) GameDir(name string) string {
	if filepath.IsAbs(name) || fileExists(name) {
		return name
	}

	return filepath.Join(c.Workspace, name)
}

// ObfuscationLevel returns the configured level, or 0 when obfuscation is disabled
func (c *Config) ObfuscationLevel() int {
	if !c.Obfuscation.Enabled {
		return 0
	}

	return c.Obfuscation.Level
}
