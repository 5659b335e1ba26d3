package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInputFileNotExist = errors.New("input file does not exist")
	ErrGameDirNotFound   = errors.New("game directory not found")
	ErrInvalidLevel      = errors.New("obfuscation level must be between 1 and 5")
	ErrInvalidTimeout    = errors.New("invalid timeout duration")
	ErrBuildFailed       = errors.New("build finished with errors")
	ErrPreprocessFailed  = errors.New("preprocessing finished with errors")
	ErrMacroErrors       = errors.New("macro expansion finished with errors")
)
