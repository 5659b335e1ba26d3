package gpcforge

import "errors"

// Common errors used throughout the gpcforge packages
var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")

	// Build errors
	// ErrNoGameMetadata indicates a game directory has neither game.json nor config.toml.
	ErrNoGameMetadata = errors.New("no game.json or config.toml found")
	// ErrInvalidGameMetadata indicates game.json or config.toml could not be parsed.
	ErrInvalidGameMetadata = errors.New("invalid game metadata")
	// ErrMainNotFound indicates the game directory has no main.gpc entry file.
	ErrMainNotFound = errors.New("main.gpc not found")
	// ErrOutputDirectory indicates the dist directory could not be created.
	ErrOutputDirectory = errors.New("failed to create output directory")
	// ErrWriteOutput indicates a build artefact could not be written.
	ErrWriteOutput = errors.New("failed to write output")
)
