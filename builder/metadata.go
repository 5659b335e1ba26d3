package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/shibukawa/gpcforge"
)

const (
	gameMetaFile     = "game.json"
	legacyConfigFile = "config.toml"
	defaultGameType  = "fps"
)

// GameMeta is the game.json descriptor of a game directory
type GameMeta struct {
	Name           string   `yaml:"name"`
	Filename       string   `yaml:"filename"`
	Version        uint32   `yaml:"version"`
	GameType       string   `yaml:"game_type"`
	ConsoleType    string   `yaml:"console_type"`
	Username       string   `yaml:"username"`
	GenerationMode string   `yaml:"generation_mode"`
	Tags           []string `yaml:"tags"`
}

// LegacyConfig is the config.toml descriptor of older game directories
type LegacyConfig struct {
	Filename     string   `toml:"filename"`
	Version      uint32   `toml:"version"`
	Name         string   `toml:"name"`
	Username     string   `toml:"username"`
	Type         string   `toml:"type"`
	ConsoleType  string   `toml:"console_type"`
	ProfileCount uint32   `toml:"profile_count"`
	Weapons      []string `toml:"weapons"`
}

// Metadata is the game information used to name build output
type Metadata struct {
	Name     string
	Filename string // filename template
	Version  uint32
	Type     string
	Username string
	Source   string // file the metadata was read from
}

// LoadMetadata reads game.json, falling back to the legacy config.toml
func LoadMetadata(gameDir string) (*Metadata, error) {
	metaPath := filepath.Join(gameDir, gameMetaFile)
	data, err := os.ReadFile(metaPath)
	switch {
	case err == nil:
		return parseGameMeta(metaPath, data)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: could not read %s: %w", gpcforge.ErrInvalidGameMetadata, gameMetaFile, err)
	}

	configPath := filepath.Join(gameDir, legacyConfigFile)
	data, err = os.ReadFile(configPath)
	switch {
	case err == nil:
		return parseLegacyConfig(configPath, data)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: could not read %s: %w", gpcforge.ErrInvalidGameMetadata, legacyConfigFile, err)
	}

	return nil, fmt.Errorf("%w in %s", gpcforge.ErrNoGameMetadata, gameDir)
}

// parseGameMeta decodes game.json. JSON is a subset of YAML, so the YAML decoder reads it as is.
func parseGameMeta(path string, data []byte) (*Metadata, error) {
	var meta GameMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: could not parse %s: %w", gpcforge.ErrInvalidGameMetadata, gameMetaFile, err)
	}

	if meta.Filename == "" {
		return nil, fmt.Errorf("%w: %s: filename is required", gpcforge.ErrInvalidGameMetadata, gameMetaFile)
	}

	return &Metadata{
		Name:     meta.Name,
		Filename: meta.Filename,
		Version:  meta.Version,
		Type:     meta.GameType,
		Username: meta.Username,
		Source:   path,
	}, nil
}

func parseLegacyConfig(path string, data []byte) (*Metadata, error) {
	var config LegacyConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: could not parse %s: %w", gpcforge.ErrInvalidGameMetadata, legacyConfigFile, err)
	}

	if config.Filename == "" {
		return nil, fmt.Errorf("%w: %s: filename is required", gpcforge.ErrInvalidGameMetadata, legacyConfigFile)
	}

	gameType := config.Type
	if gameType == "" {
		gameType = defaultGameType
	}

	return &Metadata{
		Name:     config.Name,
		Filename: config.Filename,
		Version:  config.Version,
		Type:     gameType,
		Username: config.Username,
		Source:   path,
	}, nil
}

// OutputFilename expands the filename template and appends the script extension.
// Placeholders: {version}, {game}, {gameabbr}, {username}, {type}.
func (m *Metadata) OutputFilename() string {
	replacer := strings.NewReplacer(
		"{version}", strconv.FormatUint(uint64(m.Version), 10),
		"{game}", m.Name,
		"{gameabbr}", filenameSafe(m.Name),
		"{username}", m.Username,
		"{type}", m.Type,
	)

	return replacer.Replace(m.Filename) + ".gpc"
}

// filenameSafe keeps letters, digits, '-' and '_'
func filenameSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}

		return -1
	}, s)
}
