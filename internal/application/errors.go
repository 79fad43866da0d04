package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotDebugCapable = errors.New("watch mode requires a debug-capable registry")
	ErrNoRegistry      = errors.New("no registry configured")
	ErrNoWriter        = errors.New("no writer configured")
)

// ResolutionError represents a failure to resolve an asset name to an
// artifact: unknown dependency, malformed formula, missing input file.
// Recoverable at the pass level.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ValidationError represents an invalid command configuration
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
