package combine

import (
	"errors"
	"fmt"
	"io/fs"
)

// DirectoryError reports a root that is missing or not a directory. It is fatal.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("invalid root directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// ReadError reports a failure reading one file.
type ReadError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// SinkError reports an output destination that could not be written. It is fatal.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("failed to write output to %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// ConfigError reports a contradictory or invalid configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}

// ErrNotDirectory is wrapped by a DirectoryError when the root is a file.
var ErrNotDirectory = errors.New("not a directory")

// newReadError classifies err by its underlying cause.
func newReadError(path string, err error) *ReadError {
	kind := KindIO
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotExist
	}
	return &ReadError{Path: path, Kind: kind, Err: err}
}
