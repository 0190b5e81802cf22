package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every *ConfigError
	ErrInvalidConfig = errors.New("invalid config")
	// ErrBusy is returned when a run is started while another one is active
	ErrBusy = errors.New("a batch is already running")
)

// ConfigError rejects user input before a run starts
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// SetupError aborts a run before any file is processed
type SetupError struct {
	Op   string
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// FileError is the failure of a single file, the run goes on
type FileError struct {
	Name string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
