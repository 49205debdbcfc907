package errors

import (
	"errors"
)

var (
	// General Errors
	ErrUnsupportedFile = errors.New("unsupported file format")

	// Job Configuration Errors
	ErrJobConfigParse    = errors.New("error parsing job configuration")
	ErrUnknownStepKind   = errors.New("unknown step kind")
	ErrUnknownAction     = errors.New("unknown transition action")
	ErrMissingJobID      = errors.New("job configuration has no id")
	ErrInvalidDocument   = errors.New("job document failed validation")
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// Compression Errors
	ErrCompressionFailed      = errors.New("compression failed")
	ErrUnsupportedCompression = errors.New("unsupported compression format")

	// File & Directory Errors
	ErrFileNotFound   = errors.New("file not found")
	ErrFileReadError  = errors.New("error reading file")
	ErrFileWriteError = errors.New("error writing to file")

	// Hash Errors
	ErrInvalidHasher = errors.New("invalid hasher")

	// Configuration Errors
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrConfigParseError = errors.New("error parsing configuration")
	ErrNotInitialized   = errors.New("component not initialized")
)
