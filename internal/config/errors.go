package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates a file extension with no known decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed indicates an out-of-range scalar setting.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidStrategy indicates a malformed autocomplete strategy.
	ErrInvalidStrategy = errors.New("invalid autocomplete strategy")

	// ErrInvalidControl indicates a malformed custom toolbar control.
	ErrInvalidControl = errors.New("invalid toolbar control")

	// ErrInvalidKeyCommand indicates a malformed key command.
	ErrInvalidKeyCommand = errors.New("invalid key command")

	// ErrInvalidDecorator indicates a malformed decorator.
	ErrInvalidDecorator = errors.New("invalid decorator")

	// ErrNoCompiler indicates a script was configured but no compiler was
	// supplied.
	ErrNoCompiler = errors.New("no script compiler")
)

// ParseError represents an error while decoding a configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Format is the decoder that was used.
	Format Format
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s config %s: %v", e.Format, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports the first invalid entry in a configuration.
type ValidationError struct {
	// Field is the path of the offending entry, e.g. "strategies[1]".
	Field string
	// Err is one of the sentinel errors above.
	Err error
	// Reason describes the problem.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Reason)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, field, format string, args ...any) error {
	return &ValidationError{Field: field, Err: err, Reason: fmt.Sprintf(format, args...)}
}
