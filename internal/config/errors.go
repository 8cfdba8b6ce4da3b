package config

import (
	"errors"
	"fmt"
)

// Configuration validation errors.
// These errors are wrapped in an ArgumentError by Config.Validate() so callers
// can match both the kind (errors.As) and the exact rule (errors.Is).
var (
	// ErrNoInput is returned when the query text is missing.
	// The input is mandatory even in interactive mode.
	ErrNoInput = errors.New("no input specified: provide the query text as an argument")

	// ErrUnexpectedArgument is returned when more than one query text is given.
	ErrUnexpectedArgument = errors.New("unexpected argument: quote the query text to pass it as one argument")

	// ErrInvalidFormat is returned when --format names an unknown renderer.
	ErrInvalidFormat = errors.New("invalid format: must be one of text, markdown, json")

	// ErrInvalidView is returned when --view names an unknown selection.
	ErrInvalidView = errors.New("invalid view: must be one of ask, full, summary")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// ArgumentError reports a missing or malformed command-line input.
type ArgumentError struct {
	// Arg is the name of the offending argument or flag.
	Arg string
	// Value is the rejected value, if any.
	Value string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("argument %s: %v", e.Arg, e.Err)
	}
	return fmt.Sprintf("argument %s=%q: %v", e.Arg, e.Value, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}
