package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound    = errors.New("not found")
	ErrNoPlan      = errors.New("no saved plan")
	ErrUnsupported = errors.New("unsupported operation")
	ErrUnavailable = errors.New("generator unavailable")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// GenerationError wraps a failed or unusable generator response
type GenerationError struct {
	Stage string // "request", "response" or "validate"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("diagram generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// StoreError reports a plan store failure with the store location
type StoreError struct {
	Op       string // "load" or "save"
	Location string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s plan at %s: %v", e.Op, e.Location, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
